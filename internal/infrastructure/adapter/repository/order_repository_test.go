package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/persistence"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/logger"
)

func newTestOrder(t *testing.T, externalID string) *entity.PaymentOrder {
	t.Helper()
	order, err := entity.NewPaymentOrder(externalID, "u1", 999, 300, "stripe", entity.Metadata{"plan": "pro"}, testTimeProvider())
	require.NoError(t, err)
	return order
}

func TestPaymentOrderRepository_Claim(t *testing.T) {
	repo := NewPaymentOrderRepository(setupTestDB(t), testTimeProvider(), logger.NewNoopLogger())
	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		outcome, err := repo.Claim(ctx, newTestOrder(t, "evt_1"))

		require.NoError(t, err)
		assert.Equal(t, persistence.Claimed, outcome)
	})

	t.Run("redelivery observes existing claim", func(t *testing.T) {
		outcome, err := repo.Claim(ctx, newTestOrder(t, "evt_1"))

		require.NoError(t, err)
		assert.Equal(t, persistence.AlreadyClaimed, outcome)
	})

	t.Run("distinct events claim independently", func(t *testing.T) {
		outcome, err := repo.Claim(ctx, newTestOrder(t, "evt_2"))

		require.NoError(t, err)
		assert.Equal(t, persistence.Claimed, outcome)
	})
}

func TestPaymentOrderRepository_GetByExternalID(t *testing.T) {
	repo := NewPaymentOrderRepository(setupTestDB(t), testTimeProvider(), logger.NewNoopLogger())
	ctx := context.Background()

	_, err := repo.Claim(ctx, newTestOrder(t, "evt_1"))
	require.NoError(t, err)

	order, err := repo.GetByExternalID(ctx, "evt_1")
	require.NoError(t, err)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, int64(300), order.Bonus)
	assert.Equal(t, entity.OrderPending, order.Status)
	assert.Equal(t, "pro", order.Metadata["plan"])

	_, err = repo.GetByExternalID(ctx, "evt_missing")
	assert.ErrorIs(t, err, errs.ErrOrderNotFound)
}

func TestPaymentOrderRepository_UpdateStatus(t *testing.T) {
	repo := NewPaymentOrderRepository(setupTestDB(t), testTimeProvider(), logger.NewNoopLogger())
	ctx := context.Background()

	_, err := repo.Claim(ctx, newTestOrder(t, "evt_1"))
	require.NoError(t, err)

	t.Run("pending transitions to completed", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, "evt_1", entity.OrderCompleted))

		order, err := repo.GetByExternalID(ctx, "evt_1")
		require.NoError(t, err)
		assert.Equal(t, entity.OrderCompleted, order.Status)
	})

	t.Run("terminal order is never remutated", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, "evt_1", entity.OrderFailed))

		order, err := repo.GetByExternalID(ctx, "evt_1")
		require.NoError(t, err)
		assert.Equal(t, entity.OrderCompleted, order.Status)
	})

	t.Run("missing order", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, "evt_missing", entity.OrderCompleted)
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})
}
