package entity

import (
	"time"

	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
)

// OrderStatus defines possible status values for a payment order
type OrderStatus string

// OrderStatus constants
const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderFailed    OrderStatus = "failed"
)

// Metadata is a free-form key/value payload attached to orders and transactions
type Metadata map[string]string

// PaymentOrder represents one distinct payment-provider event.
// The provider-assigned ExternalID is the idempotency key: inserting a second
// order with the same ExternalID must surface a uniqueness conflict, which the
// idempotency gate reports as AlreadyClaimed.
type PaymentOrder struct {
	ID         uint64      // Internal identifier
	ExternalID string      // Provider-assigned event identifier, unique
	UserID     string      // User being credited
	Amount     int64       // Currency paid, in minor units
	Bonus      int64       // Credits granted on completion
	Status     OrderStatus // pending, completed or failed
	Provider   string      // Source integration tag
	Metadata   Metadata    // Free-form provider payload
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewPaymentOrder creates a pending payment order for a provider event
func NewPaymentOrder(externalID, userID string, amount, bonus int64, provider string, metadata Metadata, timeProvider coreport.TimeProvider) (*PaymentOrder, error) {
	if externalID == "" {
		return nil, errs.ErrInvalidPayload
	}
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if bonus <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	now := timeProvider.Now()
	return &PaymentOrder{
		ExternalID: externalID,
		UserID:     userID,
		Amount:     amount,
		Bonus:      bonus,
		Status:     OrderPending,
		Provider:   provider,
		Metadata:   metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsTerminal reports whether the order can no longer transition
func (o *PaymentOrder) IsTerminal() bool {
	return o.Status == OrderCompleted || o.Status == OrderFailed
}
