package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
	coreport "github.com/jasper326-web/artisan-credits/internal/domain/port/core"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/model"
)

// TransactionRepository implements the append-only transaction log using GORM
type TransactionRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		OperationType: entity.OperationType(m.OperationType),
		APIProvider:   m.APIProvider,
		ModelUsed:     m.ModelUsed,
		Amount:        m.Amount,
		Status:        entity.TransactionStatus(m.Status),
		RetryCount:    m.RetryCount,
		MaxRetries:    m.MaxRetries,
		ErrorMessage:  m.ErrorMessage,
		ReferenceID:   m.ReferenceID,
		ResultBalance: m.ResultBalance,
		Metadata:      entity.Metadata(m.Metadata),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *TransactionRepository) entityToModel(t *entity.Transaction) *model.Transaction {
	return &model.Transaction{
		ID:            t.ID,
		TransactionID: t.TransactionID,
		UserID:        t.UserID,
		OperationType: string(t.OperationType),
		APIProvider:   t.APIProvider,
		ModelUsed:     t.ModelUsed,
		Amount:        t.Amount,
		Status:        string(t.Status),
		RetryCount:    t.RetryCount,
		MaxRetries:    t.MaxRetries,
		ErrorMessage:  t.ErrorMessage,
		ReferenceID:   t.ReferenceID,
		ResultBalance: t.ResultBalance,
		Metadata:      model.JSONMap(t.Metadata),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (r *TransactionRepository) handleDatabaseError(operation string, err error, transactionID string) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"transaction_id": transactionID,
		"error":          err.Error(),
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrTransactionNotFound
	}
	if r.errorClassifier.IsTransientError(err) {
		return fmt.Errorf("%w: %s", errs.ErrTransientStorage, operation)
	}
	return fmt.Errorf("%w: %s", errs.ErrStorageUnavailable, operation)
}

// Create appends a new transaction record
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := r.entityToModel(transaction)

	result := r.db.WithContext(ctx).Create(transactionModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating transaction", result.Error, transaction.TransactionID)
	}

	transaction.ID = transactionModel.ID
	return nil
}

// Update persists status, error and balance changes for an existing record
func (r *TransactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("transaction_id = ?", transaction.TransactionID).
		Updates(map[string]any{
			"status":         string(transaction.Status),
			"error_message":  transaction.ErrorMessage,
			"result_balance": transaction.ResultBalance,
			"updated_at":     transaction.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating transaction", result.Error, transaction.TransactionID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrTransactionNotFound
	}
	return nil
}

// GetByTransactionID retrieves a record by its public transaction ID
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).First(&transactionModel, "transaction_id = ?", transactionID)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting transaction", result.Error, transactionID)
	}
	return r.modelToEntity(&transactionModel), nil
}

// GetByReferenceID retrieves the record created for an external payment event
func (r *TransactionRepository) GetByReferenceID(ctx context.Context, referenceID string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		Order("id DESC").
		First(&transactionModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting transaction by reference", result.Error, referenceID)
	}
	return r.modelToEntity(&transactionModel), nil
}

// ListByUser returns the user's records newest first with offset pagination
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error) {
	var transactionModels []model.Transaction
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactionModels)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing transactions", result.Error, userID)
	}

	transactions := make([]*entity.Transaction, 0, len(transactionModels))
	for i := range transactionModels {
		transactions = append(transactions, r.modelToEntity(&transactionModels[i]))
	}
	return transactions, nil
}

// IncrementRetry bumps retry_count through a single conditional update that
// only re-opens a record which has settled as failed below the ceiling. The
// status guard is what serializes concurrent redeliveries: the first one
// re-opens the record to pending and every other one observes zero rows, so
// the count never exceeds max_retries and at most one re-drive is in flight.
func (r *TransactionRepository) IncrementRetry(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("transaction_id = ? AND status = ? AND retry_count < max_retries", transactionID, string(entity.StatusFailed)).
		Updates(map[string]any{
			"retry_count": gorm.Expr("retry_count + 1"),
			"status":      string(entity.StatusPending),
			"updated_at":  r.timeProvider.Now(),
		})
	if result.Error != nil {
		return nil, r.handleDatabaseError("incrementing retry count", result.Error, transactionID)
	}

	if result.RowsAffected == 0 {
		txn, err := r.GetByTransactionID(ctx, transactionID)
		if err != nil {
			return nil, err
		}
		switch txn.Status {
		case entity.StatusCompleted:
			return nil, fmt.Errorf("%w: transaction %s already completed", errs.ErrDuplicateEvent, transactionID)
		case entity.StatusPending:
			return nil, fmt.Errorf("%w: transaction %s", errs.ErrAttemptInFlight, transactionID)
		}
		return nil, fmt.Errorf("%w: transaction %s at %d/%d retries", errs.ErrRetriesExhausted, transactionID, txn.RetryCount, txn.MaxRetries)
	}

	return r.GetByTransactionID(ctx, transactionID)
}
