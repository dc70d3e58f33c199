package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/usecase"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/api/dto"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/logger"
	mockusecase "github.com/jasper326-web/artisan-credits/mocks/usecase"
)

func setupTransactionRouter(creditService usecase.CreditUseCase) *gin.Engine {
	h := NewTransactionHandler(creditService, logger.NewNoopLogger())
	router := gin.New()
	router.GET("/transactions", h.List)
	router.GET("/transactions/status", h.Status)
	return router
}

func TestTransactionHandler_List(t *testing.T) {
	t.Run("returns page of records", func(t *testing.T) {
		creditService := new(mockusecase.MockCreditUseCase)
		creditService.On("ListTransactions", mock.Anything, "u1", 10, 5).
			Return([]*entity.Transaction{
				{TransactionID: "txn_2", UserID: "u1", Status: entity.StatusCompleted},
				{TransactionID: "txn_1", UserID: "u1", Status: entity.StatusFailed},
			}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/transactions?user_id=u1&limit=10&offset=5", nil)
		setupTransactionRouter(creditService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.TransactionListResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "u1", resp.UserID)
		assert.Equal(t, 5, resp.Offset)
		assert.Len(t, resp.Transactions, 2)
		assert.Equal(t, "txn_2", resp.Transactions[0].TransactionID)
		creditService.AssertExpectations(t)
	})

	t.Run("missing user_id", func(t *testing.T) {
		creditService := new(mockusecase.MockCreditUseCase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
		setupTransactionRouter(creditService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		creditService.AssertNotCalled(t, "ListTransactions")
	})
}

func TestTransactionHandler_Status(t *testing.T) {
	t.Run("returns the record", func(t *testing.T) {
		creditService := new(mockusecase.MockCreditUseCase)
		creditService.On("GetTransactionStatus", mock.Anything, "txn_1").
			Return(&entity.Transaction{
				TransactionID: "txn_1",
				UserID:        "u1",
				Status:        entity.StatusFailed,
				RetryCount:    2,
				MaxRetries:    3,
				ErrorMessage:  "transient storage failure",
			}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/transactions/status?transaction_id=txn_1", nil)
		setupTransactionRouter(creditService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.TransactionResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "failed", resp.Status)
		assert.Equal(t, 2, resp.RetryCount)
		assert.Equal(t, "transient storage failure", resp.ErrorMessage)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		creditService := new(mockusecase.MockCreditUseCase)
		creditService.On("GetTransactionStatus", mock.Anything, "txn_missing").
			Return(nil, errs.ErrTransactionNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/transactions/status?transaction_id=txn_missing", nil)
		setupTransactionRouter(creditService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing transaction_id", func(t *testing.T) {
		creditService := new(mockusecase.MockCreditUseCase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/transactions/status", nil)
		setupTransactionRouter(creditService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
