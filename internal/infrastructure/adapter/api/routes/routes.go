package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/api/handler"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	creditHandler *handler.CreditHandler,
	transactionHandler *handler.TransactionHandler,
	webhookHandler *handler.WebhookHandler,
) {
	router.GET("/health", handler.Health)

	// Credit ledger
	router.GET("/credits", creditHandler.GetBalance)
	router.POST("/credits", creditHandler.Recharge)

	// Audit trail
	transactionRoutes := router.Group("/transactions")
	{
		transactionRoutes.GET("", transactionHandler.List)
		transactionRoutes.GET("/status", transactionHandler.Status)
	}

	// Payment-provider deliveries
	router.POST("/webhooks/payment", webhookHandler.Payment)
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
