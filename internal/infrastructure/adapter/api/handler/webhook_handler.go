package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/jasper326-web/artisan-credits/internal/domain/error"
	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/usecase"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/api/dto"
)

// WebhookHandler handles inbound payment-provider deliveries
type WebhookHandler struct {
	reconciler      usecase.WebhookUseCase
	logger          coreport.Logger
	signatureHeader string
}

// NewWebhookHandler creates a new webhook handler instance
func NewWebhookHandler(reconciler usecase.WebhookUseCase, logger coreport.Logger, signatureHeader string) *WebhookHandler {
	return &WebhookHandler{
		reconciler:      reconciler,
		logger:          logger,
		signatureHeader: signatureHeader,
	}
}

// Payment handles the POST /webhooks/payment endpoint. The provider only
// reads the status code: 2xx acknowledges the event, anything else triggers
// redelivery. Duplicate deliveries are acknowledged like completions.
func (h *WebhookHandler) Payment(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("Failed to read webhook body", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidPayload),
			Message: "Could not read request body",
		})
		return
	}

	signature := c.GetHeader(h.signatureHeader)
	result := h.reconciler.Process(c.Request.Context(), payload, signature)

	switch result.State {
	case usecase.StateCompleted, usecase.StateDuplicate:
		c.JSON(http.StatusOK, dto.WebhookResponse{Received: true})
		return
	}

	switch {
	case errors.Is(result.Err, domainerr.ErrInvalidPayload),
		errors.Is(result.Err, domainerr.ErrInvalidSignature):
		// Fatal: the provider would resend the same bytes, so retrying is
		// pointless
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(result.Err),
			Message: "Invalid webhook payload",
		})
	case errors.Is(result.Err, domainerr.ErrRetriesExhausted):
		// Terminal after exhausting retries: acknowledge so the provider
		// stops redelivering; recovery is a manual operation from here
		c.JSON(http.StatusOK, dto.WebhookResponse{Received: true})
	default:
		// Retryable: a non-2xx asks the provider to redeliver
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(result.Err),
			Message: "Event processing failed",
		})
	}
}
