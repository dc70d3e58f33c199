package credit

import (
	"context"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
)

// GetBalance retrieves a user's balance, provisioning the account with the
// configured initial grant on first access. Provisioning is idempotent under
// concurrent first calls: the grant is applied at most once.
func (s *Service) GetBalance(ctx context.Context, userID string) (*entity.Account, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	account, err := s.accountRepo.GetOrCreate(ctx, userID, s.initialGrant)
	if err != nil {
		s.logger.Error("Failed to get account", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	s.logger.Debug("Balance retrieved", map[string]any{
		"user_id": userID,
		"balance": account.Balance,
	})

	return account, nil
}
