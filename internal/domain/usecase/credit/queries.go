package credit

import (
	"context"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListTransactions returns the user's transaction records newest first.
// Pagination is offset based; an audit view tolerates results shifting when
// writes land between pages.
func (s *Service) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	transactions, err := s.transactionRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list transactions", map[string]any{
			"user_id": userID,
			"limit":   limit,
			"offset":  offset,
			"error":   err.Error(),
		})
		return nil, err
	}

	return transactions, nil
}

// GetTransactionStatus returns the full record for a transaction ID
func (s *Service) GetTransactionStatus(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	if transactionID == "" {
		return nil, errs.ErrInvalidTransactionID
	}

	txn, err := s.transactionRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if !errs.IsNotFoundError(err) {
			s.logger.Error("Failed to get transaction", map[string]any{
				"transaction_id": transactionID,
				"error":          err.Error(),
			})
		}
		return nil, err
	}

	return txn, nil
}
