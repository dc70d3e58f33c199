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
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/model"
)

// AccountRepository implements the ledger store using GORM. All mutations are
// single conditional statements against the stored value; a naive
// read-then-write would reintroduce the lost-update race across process
// instances.
type AccountRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *AccountRepository) modelToEntity(m *model.Account) *entity.Account {
	return &entity.Account{
		UserID:    m.UserID,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *AccountRepository) handleDatabaseError(operation string, err error, userID string) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrAccountNotFound
	}
	if r.errorClassifier.IsTransientError(err) {
		return fmt.Errorf("%w: %s", errs.ErrTransientStorage, operation)
	}
	return fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, operation)
}

// GetOrCreate returns the account for the user, provisioning it with the
// initial grant if absent. The insert carries ON CONFLICT DO NOTHING, so
// concurrent first accesses race safely: exactly one insert wins and every
// caller reads the same stored balance.
func (r *AccountRepository) GetOrCreate(ctx context.Context, userID string, initialGrant int64) (*entity.Account, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	now := r.timeProvider.Now()
	accountModel := model.Account{
		UserID:    userID,
		Balance:   initialGrant,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&accountModel)
	if result.Error != nil && !r.errorClassifier.IsDuplicateKeyError(result.Error) {
		return nil, r.handleDatabaseError("provisioning account", result.Error, userID)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Account provisioned", map[string]any{
			"user_id":       userID,
			"initial_grant": initialGrant,
		})
	}

	return r.GetByUserID(ctx, userID)
}

// GetByUserID retrieves an account without provisioning
func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*entity.Account, error) {
	var accountModel model.Account
	result := r.db.WithContext(ctx).First(&accountModel, "user_id = ?", userID)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting account", result.Error, userID)
	}
	return r.modelToEntity(&accountModel), nil
}

// Increment applies a balance delta as a single conditional UPDATE guarded
// against going negative. Two concurrent increments both land because the
// expression is evaluated against the stored value inside the statement.
func (r *AccountRepository) Increment(ctx context.Context, userID string, delta int64) (*entity.Account, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("user_id = ? AND balance + ? >= 0", userID, delta).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		return nil, r.handleDatabaseError("incrementing balance", result.Error, userID)
	}

	if result.RowsAffected == 0 {
		// Either the account is missing or the guard rejected the delta
		if _, err := r.GetByUserID(ctx, userID); err != nil {
			return nil, err
		}
		r.logger.Warn("Balance change rejected by negative guard", map[string]any{
			"user_id": userID,
			"delta":   delta,
		})
		return nil, errs.NewInvalidAmountError(userID, delta)
	}

	account, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Balance incremented", map[string]any{
		"user_id":     userID,
		"delta":       delta,
		"new_balance": account.Balance,
	})

	return account, nil
}
