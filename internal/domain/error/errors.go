package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidPayload      = 4001
	CodeInvalidAmount       = 4002
	CodeInvalidUserID       = 4003
	CodeDuplicateEvent      = 4004
	CodeAccountNotFound     = 4040
	CodeTransactionNotFound = 4041
	CodeOrderNotFound       = 4042

	// 5xxx - Server errors
	CodeInternalServer   = 5000
	CodeStorageFailure   = 5001
	CodeRetriesExhausted = 5002
)

// Base error types
var (
	// ErrInvalidPayload is returned when a webhook payload is malformed or missing required fields
	ErrInvalidPayload = errors.New("invalid webhook payload")

	// ErrInvalidAmount is returned when an amount is non-positive or would drive a balance negative
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidUserID is returned when the user ID is empty
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidTransactionID is returned when the transaction ID is empty
	ErrInvalidTransactionID = errors.New("transaction ID cannot be empty")

	// ErrDuplicateEvent is returned when a payment event with the same external ID was already claimed.
	// This is the success-equivalent outcome of the idempotency gate, not a failure.
	ErrDuplicateEvent = errors.New("payment event already processed")

	// ErrAccountNotFound is returned when the requested account doesn't exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrOrderNotFound is returned when the requested payment order doesn't exist
	ErrOrderNotFound = errors.New("payment order not found")

	// ErrRetriesExhausted is returned when a transaction has reached its retry ceiling
	ErrRetriesExhausted = errors.New("retry limit reached, manual intervention required")

	// ErrAttemptInFlight is returned when another delivery holds the crediting
	// attempt for the same event. The caller should let the provider redeliver
	// after the in-flight attempt settles.
	ErrAttemptInFlight = errors.New("crediting attempt already in flight")

	// ErrTransientStorage is returned for recoverable storage failures
	ErrTransientStorage = errors.New("transient storage failure")

	// ErrStorageUnavailable is returned when the durable store cannot be reached
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidSignature is returned when a webhook signature does not match the payload
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrInvalidSignature):
		return CodeInvalidPayload
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidUserID), errors.Is(err, ErrInvalidTransactionID), errors.Is(err, ErrInvalidRequest):
		return CodeInvalidUserID
	case errors.Is(err, ErrDuplicateEvent):
		return CodeDuplicateEvent
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrOrderNotFound):
		return CodeOrderNotFound
	case errors.Is(err, ErrRetriesExhausted):
		return CodeRetriesExhausted
	case errors.Is(err, ErrTransientStorage), errors.Is(err, ErrStorageUnavailable), errors.Is(err, ErrAttemptInFlight):
		return CodeStorageFailure
	default:
		return CodeInternalServer
	}
}

// CreditError represents an error related to a ledger operation
type CreditError struct {
	UserID string
	Amount int64
	Err    error
}

// Error implements the error interface for CreditError
func (e *CreditError) Error() string {
	return fmt.Sprintf("credit operation failed for user %s (amount: %d): %v", e.UserID, e.Amount, e.Err)
}

// Unwrap returns the underlying error
func (e *CreditError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *CreditError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "credit_error",
		"user_id":    e.UserID,
		"amount":     e.Amount,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewCreditError creates a detailed credit error
func NewCreditError(userID string, amount int64, err error) error {
	return &CreditError{UserID: userID, Amount: amount, Err: err}
}

// WebhookError represents an error raised while reconciling a payment event
type WebhookError struct {
	ExternalID string
	UserID     string
	Provider   string
	Reason     string
	Err        error
}

// Error implements the error interface for WebhookError
func (e *WebhookError) Error() string {
	return fmt.Sprintf("webhook reconciliation failed for event %s (user: %s, provider: %s): %s - %v",
		e.ExternalID, e.UserID, e.Provider, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *WebhookError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *WebhookError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "webhook_error",
		"external_id": e.ExternalID,
		"user_id":     e.UserID,
		"provider":    e.Provider,
		"reason":      e.Reason,
		"error":       e.Err.Error(),
		"error_code":  ErrorCode(e.Err),
	}
}

// NewWebhookError creates a detailed webhook reconciliation error
func NewWebhookError(externalID, userID, provider, reason string, err error) error {
	return &WebhookError{ExternalID: externalID, UserID: userID, Provider: provider, Reason: reason, Err: err}
}

// InvalidAmountError provides detailed information about a rejected balance change
type InvalidAmountError struct {
	UserID string
	Delta  int64
}

// Error implements the error interface
func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("balance change of %d rejected for user %s: balance cannot go negative", e.Delta, e.UserID)
}

// Is checks if the target error is an ErrInvalidAmount
func (e *InvalidAmountError) Is(target error) bool {
	return target == ErrInvalidAmount
}

// LogFields returns a map of fields for structured logging
func (e *InvalidAmountError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invalid_amount",
		"user_id":    e.UserID,
		"delta":      e.Delta,
		"error_code": CodeInvalidAmount,
	}
}

// NewInvalidAmountError creates a new detailed invalid amount error
func NewInvalidAmountError(userID string, delta int64) error {
	return &InvalidAmountError{UserID: userID, Delta: delta}
}

// IsDuplicateEventError checks if the error is a duplicate payment event
func IsDuplicateEventError(err error) bool {
	return errors.Is(err, ErrDuplicateEvent)
}

// IsInvalidAmountError checks if the error is a negative-balance guard rejection
func IsInvalidAmountError(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsRetryableError checks if the error may succeed on a later redelivery
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrTransientStorage) ||
		errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrAttemptInFlight)
}
