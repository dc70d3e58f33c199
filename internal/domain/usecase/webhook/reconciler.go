package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/persistence"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/usecase"
)

// Reconciler consumes inbound payment-provider deliveries. Providers deliver
// at least once, never exactly once, so the same event may arrive zero, one
// or many times, concurrently and out of order; the idempotency gate makes
// redelivery safe and the reconciler decides retry versus terminal failure.
type Reconciler struct {
	orderRepo        persistence.PaymentOrderRepository
	transactionRepo  persistence.TransactionRepository
	creditService    usecase.CreditUseCase
	timeProvider     coreport.TimeProvider
	logger           coreport.Logger
	signingSecret    string
	requireSignature bool
}

// NewReconciler creates a new webhook reconciler instance
func NewReconciler(
	orderRepo persistence.PaymentOrderRepository,
	transactionRepo persistence.TransactionRepository,
	creditService usecase.CreditUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	signingSecret string,
	requireSignature bool,
) usecase.WebhookUseCase {
	return &Reconciler{
		orderRepo:        orderRepo,
		transactionRepo:  transactionRepo,
		creditService:    creditService,
		timeProvider:     timeProvider,
		logger:           logger,
		signingSecret:    signingSecret,
		requireSignature: requireSignature,
	}
}

// Process reconciles one raw delivery through the state machine
// Received -> Validating -> (Duplicate | Claiming) -> Crediting -> Completed,
// with Failed reachable from Validating, Claiming and Crediting.
func (r *Reconciler) Process(ctx context.Context, payload []byte, signature string) *usecase.WebhookResult {
	// Validating
	if r.requireSignature && !verifySignature(payload, r.signingSecret, signature) {
		r.logger.Warn("Webhook signature verification failed", map[string]any{
			"payload_bytes": len(payload),
		})
		return &usecase.WebhookResult{
			State:     usecase.StateFailed,
			Retryable: false,
			Err:       errs.ErrInvalidSignature,
		}
	}

	claim, err := parseEvent(payload)
	if err != nil {
		r.logger.Warn("Webhook payload rejected", map[string]any{
			"error": err.Error(),
		})
		return &usecase.WebhookResult{
			State:     usecase.StateFailed,
			Retryable: false,
			Err:       err,
		}
	}

	// Claiming
	order, err := entity.NewPaymentOrder(
		claim.ExternalID, claim.UserID, claim.Amount, claim.Credits,
		claim.Provider, claim.Metadata, r.timeProvider,
	)
	if err != nil {
		return r.failed(claim, usecase.StateClaiming, err, false)
	}

	outcome, err := r.orderRepo.Claim(ctx, order)
	if err != nil {
		return r.failed(claim, usecase.StateClaiming, err, true)
	}
	if outcome == persistence.AlreadyClaimed {
		return r.reconcileExisting(ctx, claim)
	}

	// Crediting: this delivery won the claim
	result, err := r.creditService.Recharge(ctx, usecase.RechargeRequest{
		UserID:        claim.UserID,
		Amount:        claim.Credits,
		OperationType: entity.OperationWebhookRecharge,
		APIProvider:   claim.Provider,
		ReferenceID:   claim.ExternalID,
		Metadata:      claim.Metadata,
	})
	if err != nil {
		return r.creditingFailed(ctx, claim, err)
	}

	return r.completed(ctx, claim, result)
}

// reconcileExisting resolves a redelivery of an event that already holds the
// claim. A completed order is the ordinary duplicate case. A pending order is
// re-driven only when its transaction has settled as failed; the re-open
// itself goes through the store's conditional retry bump, so concurrent
// redeliveries cannot both enter Crediting.
func (r *Reconciler) reconcileExisting(ctx context.Context, claim *paymentClaim) *usecase.WebhookResult {
	order, err := r.orderRepo.GetByExternalID(ctx, claim.ExternalID)
	if err != nil {
		return r.failed(claim, usecase.StateClaiming, err, true)
	}

	switch order.Status {
	case entity.OrderCompleted:
		r.logger.Info("Duplicate payment event acknowledged", map[string]any{
			"external_id": claim.ExternalID,
			"user_id":     claim.UserID,
			"provider":    claim.Provider,
		})
		return &usecase.WebhookResult{
			State:      usecase.StateDuplicate,
			ExternalID: claim.ExternalID,
			UserID:     claim.UserID,
		}

	case entity.OrderFailed:
		// Terminal: retries exhausted on an earlier delivery, operator action
		// required. Acknowledge so the provider stops redelivering.
		return r.failed(claim, usecase.StateCrediting, errs.ErrRetriesExhausted, false)
	}

	// Pending order: only a settled failed attempt may be re-driven. Anything
	// still in flight belongs to the delivery that won the claim; crediting
	// here would double-apply the event.
	txn, err := r.transactionRepo.GetByReferenceID(ctx, claim.ExternalID)
	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) {
			// The winner holds the claim but has not appended its transaction
			// yet. Ask the provider to redeliver after that attempt settles.
			return r.failed(claim, usecase.StateCrediting,
				fmt.Errorf("%w: event %s", errs.ErrAttemptInFlight, claim.ExternalID), true)
		}
		return r.failed(claim, usecase.StateCrediting, err, true)
	}

	switch txn.Status {
	case entity.StatusCompleted:
		// Credit landed but the order update lagged; settle the order now
		if uerr := r.orderRepo.UpdateStatus(ctx, claim.ExternalID, entity.OrderCompleted); uerr != nil {
			r.logger.Error("Failed to settle completed order", map[string]any{
				"external_id": claim.ExternalID,
				"error":       uerr.Error(),
			})
		}
		return &usecase.WebhookResult{
			State:         usecase.StateDuplicate,
			ExternalID:    claim.ExternalID,
			UserID:        claim.UserID,
			TransactionID: txn.TransactionID,
			Balance:       txn.ResultBalance,
		}

	case entity.StatusPending:
		return r.failed(claim, usecase.StateCrediting,
			fmt.Errorf("%w: transaction %s", errs.ErrAttemptInFlight, txn.TransactionID), true)
	}

	result, err := r.creditService.RetryRecharge(ctx, txn)
	if err != nil {
		return r.creditingFailed(ctx, claim, err)
	}
	return r.completed(ctx, claim, result)
}

// completed settles the order and acknowledges the delivery
func (r *Reconciler) completed(ctx context.Context, claim *paymentClaim, result *usecase.RechargeResult) *usecase.WebhookResult {
	if err := r.orderRepo.UpdateStatus(ctx, claim.ExternalID, entity.OrderCompleted); err != nil {
		// The credit is durable and the transaction completed; a later
		// redelivery finds the pending order with a completed transaction
		// and settles it
		r.logger.Error("Failed to mark order completed", map[string]any{
			"external_id": claim.ExternalID,
			"error":       err.Error(),
		})
	}

	r.logger.Info("Payment event reconciled", map[string]any{
		"external_id":    claim.ExternalID,
		"user_id":        claim.UserID,
		"credits":        claim.Credits,
		"provider":       claim.Provider,
		"transaction_id": result.Transaction.TransactionID,
		"new_balance":    result.Balance,
	})

	return &usecase.WebhookResult{
		State:         usecase.StateCompleted,
		ExternalID:    claim.ExternalID,
		UserID:        claim.UserID,
		TransactionID: result.Transaction.TransactionID,
		Balance:       result.Balance,
	}
}

// creditingFailed classifies a crediting failure as retryable or terminal
func (r *Reconciler) creditingFailed(ctx context.Context, claim *paymentClaim, cause error) *usecase.WebhookResult {
	if errs.IsDuplicateEventError(cause) {
		// The attempt completed under a racing delivery; settle the order
		if err := r.orderRepo.UpdateStatus(ctx, claim.ExternalID, entity.OrderCompleted); err != nil {
			r.logger.Error("Failed to settle completed order", map[string]any{
				"external_id": claim.ExternalID,
				"error":       err.Error(),
			})
		}
		return &usecase.WebhookResult{
			State:      usecase.StateDuplicate,
			ExternalID: claim.ExternalID,
			UserID:     claim.UserID,
		}
	}

	if errors.Is(cause, errs.ErrRetriesExhausted) {
		// Terminal: settle the order as failed so later redeliveries are
		// acknowledged without another credit attempt
		if err := r.orderRepo.UpdateStatus(ctx, claim.ExternalID, entity.OrderFailed); err != nil {
			r.logger.Error("Failed to mark order failed", map[string]any{
				"external_id": claim.ExternalID,
				"error":       err.Error(),
			})
		}
		return r.failed(claim, usecase.StateCrediting, errs.ErrRetriesExhausted, false)
	}

	retryable := true
	if txn, err := r.transactionRepo.GetByReferenceID(ctx, claim.ExternalID); err == nil {
		retryable = txn.CanRetry()
	}
	if !retryable {
		if err := r.orderRepo.UpdateStatus(ctx, claim.ExternalID, entity.OrderFailed); err != nil {
			r.logger.Error("Failed to mark order failed", map[string]any{
				"external_id": claim.ExternalID,
				"error":       err.Error(),
			})
		}
	}

	return r.failed(claim, usecase.StateCrediting, cause, retryable)
}

func (r *Reconciler) failed(claim *paymentClaim, at usecase.WebhookState, cause error, retryable bool) *usecase.WebhookResult {
	werr := errs.NewWebhookError(claim.ExternalID, claim.UserID, claim.Provider, string(at), cause)
	r.logger.Error("Webhook reconciliation failed", map[string]any{
		"external_id": claim.ExternalID,
		"user_id":     claim.UserID,
		"provider":    claim.Provider,
		"state":       string(at),
		"retryable":   retryable,
		"error":       cause.Error(),
	})
	return &usecase.WebhookResult{
		State:      usecase.StateFailed,
		ExternalID: claim.ExternalID,
		UserID:     claim.UserID,
		Retryable:  retryable,
		Err:        werr,
	}
}
