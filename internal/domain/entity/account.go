package entity

import (
	"time"

	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
)

// Account represents a user's credit balance.
// Accounts are provisioned lazily on first access and mutated only through
// the ledger's atomic increment.
type Account struct {
	UserID    string    // Opaque identity from the external identity provider
	Balance   int64     // Current balance in whole credits, never negative
	CreatedAt time.Time // When the account was provisioned
	UpdatedAt time.Time // When the balance last changed
}

// NewAccount creates a new account with the given initial grant
func NewAccount(userID string, initialGrant int64, timeProvider coreport.TimeProvider) (*Account, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if initialGrant < 0 {
		return nil, errs.ErrInvalidAmount
	}

	now := timeProvider.Now()
	return &Account{
		UserID:    userID,
		Balance:   initialGrant,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanApply checks whether a balance change would keep the balance non-negative
func (a *Account) CanApply(delta int64) bool {
	return a.Balance+delta >= 0
}
