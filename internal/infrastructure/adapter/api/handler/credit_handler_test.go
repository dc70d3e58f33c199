package handler

import (
	"bytes"
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

func init() {
	gin.SetMode(gin.TestMode)
}

func setupCreditRouter(creditService usecase.CreditUseCase) *gin.Engine {
	h := NewCreditHandler(creditService, logger.NewNoopLogger())
	router := gin.New()
	router.GET("/credits", h.GetBalance)
	router.POST("/credits", h.Recharge)
	return router
}

func TestCreditHandler_GetBalance(t *testing.T) {
	t.Run("returns balance", func(t *testing.T) {
		creditService := new(mockusecase.MockCreditUseCase)
		creditService.On("GetBalance", mock.Anything, "u1").
			Return(&entity.Account{UserID: "u1", Balance: 120}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/credits?user_id=u1", nil)
		setupCreditRouter(creditService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.BalanceResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "u1", resp.UserID)
		assert.Equal(t, int64(120), resp.Balance)
	})

	t.Run("missing user_id", func(t *testing.T) {
		creditService := new(mockusecase.MockCreditUseCase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/credits", nil)
		setupCreditRouter(creditService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		creditService.AssertNotCalled(t, "GetBalance")
	})

	t.Run("storage failure hides details", func(t *testing.T) {
		creditService := new(mockusecase.MockCreditUseCase)
		creditService.On("GetBalance", mock.Anything, "u1").
			Return(nil, errs.ErrStorageUnavailable)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/credits?user_id=u1", nil)
		setupCreditRouter(creditService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp dto.ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, errs.CodeStorageFailure, resp.Code)
		assert.Equal(t, "Internal server error", resp.Message)
	})
}

func TestCreditHandler_Recharge(t *testing.T) {
	rechargeBody := func(userID string, amount int64) *bytes.Reader {
		body, _ := json.Marshal(dto.RechargeRequest{UserID: userID, Amount: amount})
		return bytes.NewReader(body)
	}

	t.Run("applies recharge", func(t *testing.T) {
		creditService := new(mockusecase.MockCreditUseCase)
		creditService.On("Recharge", mock.Anything, mock.MatchedBy(func(req usecase.RechargeRequest) bool {
			return req.UserID == "u1" && req.Amount == 200
		})).Return(&usecase.RechargeResult{
			Transaction: &entity.Transaction{TransactionID: "txn_1"},
			Balance:     320,
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/credits", rechargeBody("u1", 200))
		setupCreditRouter(creditService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.RechargeResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(320), resp.Balance)
		assert.Equal(t, "txn_1", resp.TransactionID)
	})

	t.Run("rejects non-positive amount at binding", func(t *testing.T) {
		creditService := new(mockusecase.MockCreditUseCase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/credits", rechargeBody("u1", -5))
		setupCreditRouter(creditService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		creditService.AssertNotCalled(t, "Recharge")
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		creditService := new(mockusecase.MockCreditUseCase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/credits", bytes.NewReader([]byte(`{"user_id":`)))
		setupCreditRouter(creditService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
