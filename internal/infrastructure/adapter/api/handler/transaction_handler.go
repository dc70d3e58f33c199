package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerr "github.com/jasper326-web/artisan-credits/internal/domain/error"
	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/usecase"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/api/dto"
)

// TransactionHandler handles transaction history HTTP requests
type TransactionHandler struct {
	creditService usecase.CreditUseCase
	logger        coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(creditService usecase.CreditUseCase, logger coreport.Logger) *TransactionHandler {
	return &TransactionHandler{
		creditService: creditService,
		logger:        logger,
	}
}

// List handles the GET /transactions endpoint
func (h *TransactionHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Missing required query parameter: user_id",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	transactions, err := h.creditService.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, dto.FromTransaction(t))
	}

	c.JSON(http.StatusOK, dto.TransactionListResponse{
		UserID:       userID,
		Limit:        len(items),
		Offset:       offset,
		Transactions: items,
	})
}

// Status handles the GET /transactions/status endpoint
func (h *TransactionHandler) Status(c *gin.Context) {
	transactionID := c.Query("transaction_id")
	if transactionID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidTransactionID),
			Message: "Missing required query parameter: transaction_id",
		})
		return
	}

	txn, err := h.creditService.GetTransactionStatus(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTransaction(txn))
}
