package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	creditUseCase "github.com/jasper326-web/artisan-credits/internal/domain/usecase/credit"
	webhookUseCase "github.com/jasper326-web/artisan-credits/internal/domain/usecase/webhook"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/api/handler"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/api/routes"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/database"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/logger"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/repository"
	timeProvider "github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/time"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production, cfg.Logger.Level)
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	// The connection is the single shared storage client: constructed once,
	// held for the process lifetime, injected into every repository
	conn, err := database.NewConnection(&database.Config{
		Driver:          "postgres",
		Host:            cfg.Database.Host,
		Port:            database.ParsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
	}, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	if err := database.Migrate(conn.DB, appLogger); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Repositories
	accountRepo := repository.NewAccountRepository(conn.DB, tp, appLogger)
	orderRepo := repository.NewPaymentOrderRepository(conn.DB, tp, appLogger)
	transactionRepo := repository.NewTransactionRepository(conn.DB, tp, appLogger)

	// Use cases
	creditService := creditUseCase.NewCreditService(
		accountRepo,
		transactionRepo,
		tp,
		appLogger,
		cfg.Credit.InitialGrant,
		cfg.Credit.MaxRetries,
	)
	reconciler := webhookUseCase.NewReconciler(
		orderRepo,
		transactionRepo,
		creditService,
		tp,
		appLogger,
		cfg.Webhook.SigningSecret,
		cfg.Webhook.RequireSignature,
	)

	// API handlers
	creditHandler := handler.NewCreditHandler(creditService, appLogger)
	transactionHandler := handler.NewTransactionHandler(creditService, appLogger)
	webhookHandler := handler.NewWebhookHandler(reconciler, appLogger, cfg.Webhook.SignatureHeader)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, creditHandler, transactionHandler, webhookHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missing []string

	if cfg.Server.Port == 0 {
		missing = append(missing, "server.port")
	}
	if cfg.Database.Host == "" {
		missing = append(missing, "database.host (or AC_DATABASE_HOST)")
	}
	if cfg.Database.Username == "" {
		missing = append(missing, "database.username (or AC_DATABASE_USERNAME)")
	}
	if cfg.Database.Database == "" {
		missing = append(missing, "database.database (or AC_DATABASE_DATABASE)")
	}
	if cfg.Credit.InitialGrant < 0 {
		missing = append(missing, "credit.initialGrant")
	}
	if cfg.Credit.MaxRetries < 0 {
		missing = append(missing, "credit.maxRetries")
	}
	if cfg.Webhook.RequireSignature && cfg.Webhook.SigningSecret == "" {
		missing = append(missing, "webhook.signingSecret")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configurations: %v", missing)
	}
	return nil
}
