package dto

// BalanceResponse represents the API response for a user's balance
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// RechargeRequest represents the API request for a manual recharge
type RechargeRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// RechargeResponse represents the API response for a processed recharge
type RechargeResponse struct {
	UserID        string `json:"user_id"`
	Balance       int64  `json:"balance"`
	TransactionID string `json:"transaction_id"`
}
