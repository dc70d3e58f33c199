package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/database"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/logger"
	mockcore "github.com/jasper326-web/artisan-credits/mocks/core"
)

// setupTestDB opens an isolated in-memory SQLite database with the full
// schema applied. SQLite honors the same OnConflict and conditional-update
// statements the production Postgres store relies on.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db, logger.NewNoopLogger()))
	return db
}

func testTimeProvider() *mockcore.FixedTimeProvider {
	return mockcore.NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}
