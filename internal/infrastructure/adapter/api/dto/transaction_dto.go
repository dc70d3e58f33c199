package dto

import (
	"time"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
)

// TransactionResponse represents the API view of a transaction record
type TransactionResponse struct {
	TransactionID string            `json:"transaction_id"`
	UserID        string            `json:"user_id"`
	OperationType string            `json:"operation_type"`
	APIProvider   string            `json:"api_provider,omitempty"`
	ModelUsed     string            `json:"model_used,omitempty"`
	Amount        int64             `json:"amount"`
	Status        string            `json:"status"`
	RetryCount    int               `json:"retry_count"`
	MaxRetries    int               `json:"max_retries"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// TransactionListResponse represents a page of transaction records
type TransactionListResponse struct {
	UserID       string                `json:"user_id"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
	Transactions []TransactionResponse `json:"transactions"`
}

// FromTransaction converts a transaction entity to its API view
func FromTransaction(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		UserID:        t.UserID,
		OperationType: string(t.OperationType),
		APIProvider:   t.APIProvider,
		ModelUsed:     t.ModelUsed,
		Amount:        t.Amount,
		Status:        string(t.Status),
		RetryCount:    t.RetryCount,
		MaxRetries:    t.MaxRetries,
		ErrorMessage:  t.ErrorMessage,
		Metadata:      map[string]string(t.Metadata),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
