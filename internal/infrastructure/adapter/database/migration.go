package database

import (
	"fmt"

	"gorm.io/gorm"

	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/model"
)

// Migrate creates or updates the persisted tables. The unique index on
// payment_orders.external_id is part of the migration because the idempotency
// gate depends on it; without the index the gate degrades to nothing.
func Migrate(db *gorm.DB, logger coreport.Logger) error {
	logger.Info("Running database migrations", nil)

	if err := db.AutoMigrate(
		&model.Account{},
		&model.PaymentOrder{},
		&model.Transaction{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	logger.Info("Database migrations completed", map[string]any{
		"tables": []string{
			model.Account{}.TableName(),
			model.PaymentOrder{}.TableName(),
			model.Transaction{}.TableName(),
		},
	})
	return nil
}
