package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/jasper326-web/artisan-credits/internal/domain/error"
	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/usecase"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/api/dto"
)

// CreditHandler handles balance and recharge HTTP requests
type CreditHandler struct {
	creditService usecase.CreditUseCase
	logger        coreport.Logger
}

// NewCreditHandler creates a new credit handler instance
func NewCreditHandler(creditService usecase.CreditUseCase, logger coreport.Logger) *CreditHandler {
	return &CreditHandler{
		creditService: creditService,
		logger:        logger,
	}
}

// GetBalance handles the GET /credits endpoint. First access provisions the
// account with the initial grant.
func (h *CreditHandler) GetBalance(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Missing required query parameter: user_id",
		})
		return
	}

	account, err := h.creditService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  account.UserID,
		Balance: account.Balance,
	})
}

// Recharge handles the POST /credits endpoint. The manual path carries no
// idempotency key: two identical calls legitimately credit twice.
func (h *CreditHandler) Recharge(c *gin.Context) {
	var req dto.RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid recharge request", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := h.creditService.Recharge(c.Request.Context(), usecase.RechargeRequest{
		UserID: req.UserID,
		Amount: req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RechargeResponse{
		UserID:        req.UserID,
		Balance:       result.Balance,
		TransactionID: result.Transaction.TransactionID,
	})
}

// respondError maps domain errors to HTTP responses. Storage details never
// reach the client; the structured error body carries a stable code instead.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainerr.ErrInvalidUserID),
		errors.Is(err, domainerr.ErrInvalidTransactionID),
		errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
	case domainerr.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
	}
}
