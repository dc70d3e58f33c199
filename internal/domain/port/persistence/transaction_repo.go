package persistence

import (
	"context"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
)

// TransactionRepository is the append-only transaction log. Every
// credit-affecting attempt gets a record, including failed ones; terminal
// records are never mutated again.
type TransactionRepository interface {
	// Create appends a new transaction record, normally in pending status.
	//
	// Possible errors:
	// - ErrStorageUnavailable: If the durable store cannot be reached
	Create(ctx context.Context, transaction *entity.Transaction) error

	// Update persists status, error message and result balance changes for
	// an existing record, addressed by its public transaction ID.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no record exists for the transaction ID
	// - ErrStorageUnavailable: If the durable store cannot be reached
	Update(ctx context.Context, transaction *entity.Transaction) error

	// GetByTransactionID retrieves a record by its public transaction ID.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no record exists for the transaction ID
	// - ErrStorageUnavailable: If the durable store cannot be reached
	GetByTransactionID(ctx context.Context, transactionID string) (*entity.Transaction, error)

	// GetByReferenceID retrieves the record created for an external payment
	// event. Used when a redelivery re-drives a previously failed attempt.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no record references the external ID
	// - ErrStorageUnavailable: If the durable store cannot be reached
	GetByReferenceID(ctx context.Context, referenceID string) (*entity.Transaction, error)

	// ListByUser returns the user's records newest first. Pagination is
	// offset based; concurrent writes between pages may shift results, which
	// is acceptable for an audit view.
	//
	// Possible errors:
	// - ErrStorageUnavailable: If the durable store cannot be reached
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error)

	// IncrementRetry bumps retry_count as a single conditional update that
	// only re-opens a record settled as failed below the ceiling. Concurrent
	// redeliveries are serialized by the status guard: exactly one re-opens
	// the record, the rest observe the in-flight attempt.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no record exists for the transaction ID
	// - ErrRetriesExhausted: If retry_count already equals max_retries
	// - ErrAttemptInFlight: If the record is pending under another attempt
	// - ErrDuplicateEvent: If the record already completed
	// - ErrStorageUnavailable: If the durable store cannot be reached
	IncrementRetry(ctx context.Context, transactionID string) (*entity.Transaction, error)
}
