package credit

import (
	"context"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/usecase"
)

// Recharge applies a balance delta and records the attempt in the transaction
// log. The log entry is appended in pending status before the ledger mutation;
// if the mutation fails the entry stays behind as a failed audit record and is
// not rolled back.
func (s *Service) Recharge(ctx context.Context, req usecase.RechargeRequest) (*usecase.RechargeResult, error) {
	if req.UserID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if req.Amount == 0 {
		return nil, errs.ErrInvalidAmount
	}

	operationType := req.OperationType
	if operationType == "" {
		operationType = entity.OperationRecharge
	}

	txn, err := entity.NewTransaction(
		newTransactionID(),
		req.UserID,
		operationType,
		req.APIProvider,
		req.Amount,
		s.maxRetries,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}
	txn.ModelUsed = req.ModelUsed
	txn.ReferenceID = req.ReferenceID
	txn.Metadata = req.Metadata

	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		s.logger.Error("Failed to append transaction record", map[string]any{
			"transaction_id": txn.TransactionID,
			"user_id":        req.UserID,
			"error":          err.Error(),
		})
		return nil, errs.NewCreditError(req.UserID, req.Amount, err)
	}

	return s.credit(ctx, txn)
}

// RetryRecharge re-drives a previously failed transaction after a provider
// redelivery. The retry count is bumped through a conditional update so it
// can never pass the ceiling, even under concurrent redeliveries.
func (s *Service) RetryRecharge(ctx context.Context, transaction *entity.Transaction) (*usecase.RechargeResult, error) {
	txn, err := s.transactionRepo.IncrementRetry(ctx, transaction.TransactionID)
	if err != nil {
		if errs.IsRetryableError(err) {
			return nil, errs.NewCreditError(transaction.UserID, transaction.Amount, err)
		}
		s.logger.Warn("Recharge retry rejected", map[string]any{
			"transaction_id": transaction.TransactionID,
			"user_id":        transaction.UserID,
			"retry_count":    transaction.RetryCount,
			"max_retries":    transaction.MaxRetries,
			"error":          err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Retrying failed recharge", map[string]any{
		"transaction_id": txn.TransactionID,
		"user_id":        txn.UserID,
		"retry_count":    txn.RetryCount,
		"max_retries":    txn.MaxRetries,
	})

	return s.credit(ctx, txn)
}

// credit performs the ledger mutation for a pending transaction and settles
// the record as completed or failed
func (s *Service) credit(ctx context.Context, txn *entity.Transaction) (*usecase.RechargeResult, error) {
	// Lazy provisioning: a recharge may be the first time this user is seen
	if _, err := s.accountRepo.GetOrCreate(ctx, txn.UserID, s.initialGrant); err != nil {
		s.failTransaction(ctx, txn, err)
		return nil, errs.NewCreditError(txn.UserID, txn.Amount, err)
	}

	account, err := s.accountRepo.Increment(ctx, txn.UserID, txn.Amount)
	if err != nil {
		s.failTransaction(ctx, txn, err)
		if errs.IsInvalidAmountError(err) {
			return nil, err
		}
		return nil, errs.NewCreditError(txn.UserID, txn.Amount, err)
	}

	txn.MarkCompleted(account.Balance, s.timeProvider)
	if err := s.transactionRepo.Update(ctx, txn); err != nil {
		// The ledger mutation is already durable; losing the status update is
		// an audit gap, not a failed credit
		s.logger.Error("Failed to mark transaction completed", map[string]any{
			"transaction_id": txn.TransactionID,
			"user_id":        txn.UserID,
			"error":          err.Error(),
		})
	}

	s.logger.Info("Credit applied", map[string]any{
		"transaction_id": txn.TransactionID,
		"user_id":        txn.UserID,
		"amount":         txn.Amount,
		"new_balance":    account.Balance,
		"operation_type": string(txn.OperationType),
	})

	return &usecase.RechargeResult{Transaction: txn, Balance: account.Balance}, nil
}

// failTransaction settles a pending transaction as failed, keeping the record
// as an audit entry for manual reconciliation
func (s *Service) failTransaction(ctx context.Context, txn *entity.Transaction, cause error) {
	txn.MarkFailed(cause.Error(), s.timeProvider)
	if err := s.transactionRepo.Update(ctx, txn); err != nil {
		s.logger.Error("Failed to mark transaction failed", map[string]any{
			"transaction_id": txn.TransactionID,
			"user_id":        txn.UserID,
			"error":          err.Error(),
		})
	}
}
