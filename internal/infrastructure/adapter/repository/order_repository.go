package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/persistence"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/model"
)

// PaymentOrderRepository implements the idempotency gate using GORM. The
// unique index on external_id serializes concurrent claims at the storage
// layer, which holds across horizontally scaled process instances.
type PaymentOrderRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewPaymentOrderRepository creates a new PaymentOrderRepository instance
func NewPaymentOrderRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *PaymentOrderRepository {
	return &PaymentOrderRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *PaymentOrderRepository) modelToEntity(m *model.PaymentOrder) *entity.PaymentOrder {
	return &entity.PaymentOrder{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		UserID:     m.UserID,
		Amount:     m.Amount,
		Bonus:      m.Bonus,
		Status:     entity.OrderStatus(m.Status),
		Provider:   m.Provider,
		Metadata:   entity.Metadata(m.Metadata),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r *PaymentOrderRepository) handleDatabaseError(operation string, err error, externalID string) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"external_id": externalID,
		"error":       err.Error(),
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrOrderNotFound
	}
	if r.errorClassifier.IsTransientError(err) {
		return fmt.Errorf("%w: %s", errs.ErrTransientStorage, operation)
	}
	return fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, operation)
}

// Claim attempts a single insert keyed by external_id. A uniqueness conflict
// is the AlreadyClaimed outcome, not an error: this is the sole idempotency
// mechanism for payment events.
func (r *PaymentOrderRepository) Claim(ctx context.Context, order *entity.PaymentOrder) (persistence.ClaimResult, error) {
	orderModel := model.PaymentOrder{
		ExternalID: order.ExternalID,
		UserID:     order.UserID,
		Amount:     order.Amount,
		Bonus:      order.Bonus,
		Status:     string(order.Status),
		Provider:   order.Provider,
		Metadata:   model.JSONMap(order.Metadata),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).
		Create(&orderModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return persistence.AlreadyClaimed, nil
		}
		return persistence.AlreadyClaimed, r.handleDatabaseError("claiming payment event", result.Error, order.ExternalID)
	}

	if result.RowsAffected == 0 {
		r.logger.Debug("Payment event already claimed", map[string]any{
			"external_id": order.ExternalID,
			"user_id":     order.UserID,
		})
		return persistence.AlreadyClaimed, nil
	}

	order.ID = orderModel.ID
	r.logger.Info("Payment event claimed", map[string]any{
		"external_id": order.ExternalID,
		"user_id":     order.UserID,
		"bonus":       order.Bonus,
		"provider":    order.Provider,
	})
	return persistence.Claimed, nil
}

// GetByExternalID retrieves an order by its provider-assigned event ID
func (r *PaymentOrderRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.PaymentOrder, error) {
	var orderModel model.PaymentOrder
	result := r.db.WithContext(ctx).First(&orderModel, "external_id = ?", externalID)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting payment order", result.Error, externalID)
	}
	return r.modelToEntity(&orderModel), nil
}

// UpdateStatus transitions a pending order to a terminal status. The update
// is conditional on the stored status still being pending, so completed
// orders are never mutated again.
func (r *PaymentOrderRepository) UpdateStatus(ctx context.Context, externalID string, status entity.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&model.PaymentOrder{}).
		Where("external_id = ? AND status = ?", externalID, string(entity.OrderPending)).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating order status", result.Error, externalID)
	}

	if result.RowsAffected == 0 {
		order, err := r.GetByExternalID(ctx, externalID)
		if err != nil {
			return err
		}
		// Already settled by a racing delivery; the transition is a no-op
		r.logger.Debug("Order already in terminal status", map[string]any{
			"external_id": externalID,
			"status":      string(order.Status),
		})
		return nil
	}

	return nil
}
