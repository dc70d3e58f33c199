package usecase

import (
	"context"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
)

// RechargeRequest represents the input for a credit-affecting operation
type RechargeRequest struct {
	UserID        string
	Amount        int64 // Credit delta, negative for debits
	OperationType entity.OperationType
	APIProvider   string
	ModelUsed     string
	ReferenceID   string // External event ID for webhook-driven recharges
	Metadata      entity.Metadata
}

// RechargeResult represents the outcome of a credit-affecting operation
type RechargeResult struct {
	Transaction *entity.Transaction
	Balance     int64
}

// CreditUseCase exposes the ledger's balance operations and the audit query
// surface to the transport layer
type CreditUseCase interface {
	// GetBalance returns the user's balance, provisioning the account with
	// the configured initial grant on first access
	GetBalance(ctx context.Context, userID string) (*entity.Account, error)

	// Recharge applies a balance delta and records the attempt in the
	// transaction log. The manual API path is intentionally not idempotent;
	// webhook flows must claim the event first.
	Recharge(ctx context.Context, req RechargeRequest) (*RechargeResult, error)

	// RetryRecharge re-drives a previously failed transaction, incrementing
	// its retry count. Returns ErrRetriesExhausted once the ceiling is hit.
	RetryRecharge(ctx context.Context, transaction *entity.Transaction) (*RechargeResult, error)

	// ListTransactions returns the user's transaction records newest first
	ListTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error)

	// GetTransactionStatus returns the full record for a transaction ID
	GetTransactionStatus(ctx context.Context, transactionID string) (*entity.Transaction, error)
}
