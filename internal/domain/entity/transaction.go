package entity

import (
	"fmt"
	"time"

	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
)

// OperationType identifies what kind of operation a transaction records
type OperationType string

// Operation types
const (
	OperationRecharge        OperationType = "recharge"
	OperationWebhookRecharge OperationType = "webhook_recharge"
	OperationGeneration      OperationType = "generation"
)

// TransactionStatus defines possible status values for a transaction
type TransactionStatus string

// TransactionStatus constants
const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction represents one credit-affecting attempt, successful or not.
// Records are append-only: once completed, or failed with retries exhausted,
// a transaction never mutates again.
type Transaction struct {
	ID            uint64            // Internal identifier
	TransactionID string            // Unique public identifier (txn_<uuid>)
	UserID        string            // Account the attempt targets
	OperationType OperationType     // What the attempt was for
	APIProvider   string            // Source integration tag
	ModelUsed     string            // Generation model, empty when not applicable
	Amount        int64             // Credit delta, negative for debits
	Status        TransactionStatus // pending, completed or failed
	RetryCount    int               // Re-attempts after recoverable failures
	MaxRetries    int               // Retry ceiling before manual intervention
	ErrorMessage  string            // Last failure, empty on success
	ReferenceID   string            // External event ID for webhook-driven attempts
	ResultBalance int64             // Balance after a completed attempt
	Metadata      Metadata          // Free-form payload
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTransaction creates a pending transaction with basic validation
func NewTransaction(
	transactionID string,
	userID string,
	operationType OperationType,
	apiProvider string,
	amount int64,
	maxRetries int,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if transactionID == "" {
		return nil, errs.ErrInvalidTransactionID
	}
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if amount == 0 {
		return nil, errs.ErrInvalidAmount
	}
	if !isValidOperationType(operationType) {
		return nil, fmt.Errorf("%w: unknown operation type %q", errs.ErrInvalidRequest, operationType)
	}

	now := timeProvider.Now()
	return &Transaction{
		TransactionID: transactionID,
		UserID:        userID,
		OperationType: operationType,
		APIProvider:   apiProvider,
		Amount:        amount,
		Status:        StatusPending,
		MaxRetries:    maxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// MarkCompleted marks the transaction as completed with the resulting balance
func (t *Transaction) MarkCompleted(resultBalance int64, timeProvider coreport.TimeProvider) {
	t.Status = StatusCompleted
	t.ResultBalance = resultBalance
	t.ErrorMessage = ""
	t.UpdatedAt = timeProvider.Now()
}

// MarkFailed marks the transaction as failed with an error message
func (t *Transaction) MarkFailed(errorMessage string, timeProvider coreport.TimeProvider) {
	t.Status = StatusFailed
	t.ErrorMessage = errorMessage
	t.UpdatedAt = timeProvider.Now()
}

// IsTerminal reports whether no further credit attempt may occur for this record
func (t *Transaction) IsTerminal() bool {
	if t.Status == StatusCompleted {
		return true
	}
	return t.Status == StatusFailed && t.RetryCount >= t.MaxRetries
}

// CanRetry reports whether a failed attempt may be re-driven by a redelivery
func (t *Transaction) CanRetry() bool {
	return t.Status != StatusCompleted && t.RetryCount < t.MaxRetries
}

// IsCredit returns true if this transaction increases the user's balance
func (t *Transaction) IsCredit() bool {
	return t.Amount > 0
}

// IsDebit returns true if this transaction decreases the user's balance
func (t *Transaction) IsDebit() bool {
	return t.Amount < 0
}

func isValidOperationType(op OperationType) bool {
	return op == OperationRecharge || op == OperationWebhookRecharge || op == OperationGeneration
}
