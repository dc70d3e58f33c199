package usecase

import (
	"context"
)

// WebhookState is a state of the payment event reconciliation machine
type WebhookState string

// Reconciliation states. Failed is reachable from Validating, Claiming and
// Crediting; Duplicate and Completed are terminal success states.
const (
	StateReceived   WebhookState = "received"
	StateValidating WebhookState = "validating"
	StateClaiming   WebhookState = "claiming"
	StateCrediting  WebhookState = "crediting"
	StateDuplicate  WebhookState = "duplicate"
	StateCompleted  WebhookState = "completed"
	StateFailed     WebhookState = "failed"
)

// WebhookResult reports where reconciliation of a delivery ended up
type WebhookResult struct {
	State         WebhookState
	ExternalID    string
	UserID        string
	TransactionID string
	Balance       int64
	Retryable     bool  // Whether a provider redelivery may still succeed
	Err           error // Set when State is Failed
}

// WebhookUseCase consumes inbound payment-provider deliveries, deduplicates
// them through the idempotency gate and drives the recharge operation
type WebhookUseCase interface {
	// Process reconciles one raw delivery. The signature is the value of the
	// provider's signature header and may be empty when verification is
	// disabled.
	Process(ctx context.Context, payload []byte, signature string) *WebhookResult
}
