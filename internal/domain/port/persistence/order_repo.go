package persistence

import (
	"context"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
)

// ClaimResult reports the outcome of an idempotency claim
type ClaimResult int

const (
	// Claimed means this call inserted the order and owns the crediting attempt
	Claimed ClaimResult = iota
	// AlreadyClaimed means an order with the same external ID already exists
	AlreadyClaimed
)

// PaymentOrderRepository is the idempotency gate. A claim is a single insert
// attempt against the payment order table; the unique index on external_id is
// the sole serialization point, so a uniqueness conflict is the AlreadyClaimed
// outcome rather than an error. There is no separate locking layer.
type PaymentOrderRepository interface {
	// Claim attempts to insert the order. Exactly one of N concurrent claims
	// for the same external ID returns Claimed; the rest observe
	// AlreadyClaimed regardless of arrival order.
	//
	// Possible errors:
	// - ErrStorageUnavailable: If the durable store cannot be reached
	Claim(ctx context.Context, order *entity.PaymentOrder) (ClaimResult, error)

	// GetByExternalID retrieves an order by its provider-assigned event ID.
	//
	// Possible errors:
	// - ErrOrderNotFound: If no order exists for the external ID
	// - ErrStorageUnavailable: If the durable store cannot be reached
	GetByExternalID(ctx context.Context, externalID string) (*entity.PaymentOrder, error)

	// UpdateStatus transitions a pending order to completed or failed.
	// Orders in a terminal status are never mutated; the transition is
	// conditional on the stored status still being pending.
	//
	// Possible errors:
	// - ErrOrderNotFound: If no pending order exists for the external ID
	// - ErrStorageUnavailable: If the durable store cannot be reached
	UpdateStatus(ctx context.Context, externalID string, status entity.OrderStatus) error
}
