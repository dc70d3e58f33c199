package persistence

import (
	"context"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
)

// AccountRepository is the ledger store: the authoritative current-balance
// mapping per user. Both operations are single storage-layer statements so
// correctness survives multiple process instances; the application holds no
// locks around them.
type AccountRepository interface {
	// GetOrCreate returns the account for the user, provisioning it with the
	// given initial grant if absent. Provisioning is an atomic
	// insert-if-absent, so concurrent first accesses grant at most once.
	//
	// Possible errors:
	// - ErrInvalidUserID: If the user ID is empty
	// - ErrStorageUnavailable: If the durable store cannot be reached
	GetOrCreate(ctx context.Context, userID string, initialGrant int64) (*entity.Account, error)

	// GetByUserID returns the account for the user without provisioning.
	//
	// Possible errors:
	// - ErrAccountNotFound: If no account exists for the user
	// - ErrStorageUnavailable: If the durable store cannot be reached
	GetByUserID(ctx context.Context, userID string) (*entity.Account, error)

	// Increment applies a balance delta as a single conditional update. The
	// delta may be negative; the update is rejected with ErrInvalidAmount
	// when the resulting balance would go below zero. Concurrent increments
	// for the same user never lose an update.
	//
	// Possible errors:
	// - ErrAccountNotFound: If no account exists for the user
	// - ErrInvalidAmount: If the resulting balance would be negative
	// - ErrStorageUnavailable: If the durable store cannot be reached
	Increment(ctx context.Context, userID string, delta int64) (*entity.Account, error)
}
