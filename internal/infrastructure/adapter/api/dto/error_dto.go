package dto

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// WebhookResponse acknowledges a payment-provider delivery
type WebhookResponse struct {
	Received bool `json:"received"`
}
