package credit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/usecase"
	"github.com/jasper326-web/artisan-credits/internal/infrastructure/adapter/logger"
	mockcore "github.com/jasper326-web/artisan-credits/mocks/core"
	mockpersistence "github.com/jasper326-web/artisan-credits/mocks/persistence"
)

const (
	testInitialGrant = int64(120)
	testMaxRetries   = 3
)

type serviceFixture struct {
	accountRepo     *mockpersistence.MockAccountRepository
	transactionRepo *mockpersistence.MockTransactionRepository
	timeProvider    *mockcore.FixedTimeProvider
	service         usecase.CreditUseCase
}

func newServiceFixture() *serviceFixture {
	accountRepo := new(mockpersistence.MockAccountRepository)
	transactionRepo := new(mockpersistence.MockTransactionRepository)
	tp := mockcore.NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	return &serviceFixture{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		timeProvider:    tp,
		service: NewCreditService(
			accountRepo,
			transactionRepo,
			tp,
			logger.NewNoopLogger(),
			testInitialGrant,
			testMaxRetries,
		),
	}
}

func TestService_GetBalance(t *testing.T) {
	t.Run("provisions account on first access", func(t *testing.T) {
		f := newServiceFixture()
		account := &entity.Account{UserID: "u1", Balance: testInitialGrant}
		f.accountRepo.On("GetOrCreate", mock.Anything, "u1", testInitialGrant).Return(account, nil)

		got, err := f.service.GetBalance(context.Background(), "u1")

		assert.NoError(t, err)
		assert.Equal(t, testInitialGrant, got.Balance)
		f.accountRepo.AssertExpectations(t)
	})

	t.Run("rejects empty user ID", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.GetBalance(context.Background(), "")

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		f.accountRepo.AssertNotCalled(t, "GetOrCreate")
	})

	t.Run("propagates storage failure", func(t *testing.T) {
		f := newServiceFixture()
		f.accountRepo.On("GetOrCreate", mock.Anything, "u1", testInitialGrant).
			Return(nil, errs.ErrStorageUnavailable)

		_, err := f.service.GetBalance(context.Background(), "u1")

		assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
	})
}

func TestService_Recharge(t *testing.T) {
	t.Run("applies credit and settles transaction", func(t *testing.T) {
		f := newServiceFixture()
		account := &entity.Account{UserID: "u1", Balance: 420}

		f.transactionRepo.On("Create", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.UserID == "u1" && txn.Amount == 300 && txn.Status == entity.StatusPending
		})).Return(nil)
		f.accountRepo.On("GetOrCreate", mock.Anything, "u1", testInitialGrant).
			Return(&entity.Account{UserID: "u1", Balance: testInitialGrant}, nil)
		f.accountRepo.On("Increment", mock.Anything, "u1", int64(300)).Return(account, nil)
		f.transactionRepo.On("Update", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Status == entity.StatusCompleted && txn.ResultBalance == 420
		})).Return(nil)

		result, err := f.service.Recharge(context.Background(), usecase.RechargeRequest{
			UserID:      "u1",
			Amount:      300,
			APIProvider: "stripe",
			ReferenceID: "evt_1",
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(420), result.Balance)
		assert.Equal(t, entity.StatusCompleted, result.Transaction.Status)
		assert.Equal(t, "evt_1", result.Transaction.ReferenceID)
		assert.Equal(t, entity.OperationRecharge, result.Transaction.OperationType)
		f.accountRepo.AssertExpectations(t)
		f.transactionRepo.AssertExpectations(t)
	})

	t.Run("defaults empty operation type to recharge", func(t *testing.T) {
		f := newServiceFixture()

		f.transactionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.accountRepo.On("GetOrCreate", mock.Anything, "u1", testInitialGrant).
			Return(&entity.Account{UserID: "u1", Balance: testInitialGrant}, nil)
		f.accountRepo.On("Increment", mock.Anything, "u1", int64(50)).
			Return(&entity.Account{UserID: "u1", Balance: 170}, nil)
		f.transactionRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		result, err := f.service.Recharge(context.Background(), usecase.RechargeRequest{UserID: "u1", Amount: 50})

		assert.NoError(t, err)
		assert.Equal(t, entity.OperationRecharge, result.Transaction.OperationType)
	})

	t.Run("rejects invalid input without touching storage", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.Recharge(context.Background(), usecase.RechargeRequest{UserID: "", Amount: 300})
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)

		_, err = f.service.Recharge(context.Background(), usecase.RechargeRequest{UserID: "u1", Amount: 0})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		f.transactionRepo.AssertNotCalled(t, "Create")
		f.accountRepo.AssertNotCalled(t, "Increment")
	})

	t.Run("increment failure leaves failed audit record", func(t *testing.T) {
		f := newServiceFixture()

		f.transactionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.accountRepo.On("GetOrCreate", mock.Anything, "u1", testInitialGrant).
			Return(&entity.Account{UserID: "u1", Balance: testInitialGrant}, nil)
		f.accountRepo.On("Increment", mock.Anything, "u1", int64(300)).
			Return(nil, errs.ErrTransientStorage)
		f.transactionRepo.On("Update", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Status == entity.StatusFailed && txn.ErrorMessage != ""
		})).Return(nil)

		_, err := f.service.Recharge(context.Background(), usecase.RechargeRequest{UserID: "u1", Amount: 300})

		assert.ErrorIs(t, err, errs.ErrTransientStorage)
		assert.True(t, errs.IsRetryableError(err))
		f.transactionRepo.AssertExpectations(t)
	})

	t.Run("negative balance guard surfaces invalid amount", func(t *testing.T) {
		f := newServiceFixture()

		f.transactionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.accountRepo.On("GetOrCreate", mock.Anything, "u1", testInitialGrant).
			Return(&entity.Account{UserID: "u1", Balance: 20}, nil)
		f.accountRepo.On("Increment", mock.Anything, "u1", int64(-500)).
			Return(nil, errs.NewInvalidAmountError("u1", -500))
		f.transactionRepo.On("Update", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Status == entity.StatusFailed
		})).Return(nil)

		_, err := f.service.Recharge(context.Background(), usecase.RechargeRequest{
			UserID:        "u1",
			Amount:        -500,
			OperationType: entity.OperationGeneration,
		})

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.False(t, errs.IsRetryableError(err))
	})

	t.Run("create failure aborts before ledger mutation", func(t *testing.T) {
		f := newServiceFixture()

		f.transactionRepo.On("Create", mock.Anything, mock.Anything).Return(errs.ErrStorageUnavailable)

		_, err := f.service.Recharge(context.Background(), usecase.RechargeRequest{UserID: "u1", Amount: 300})

		assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
		f.accountRepo.AssertNotCalled(t, "Increment")
	})
}

func TestService_RetryRecharge(t *testing.T) {
	pendingTxn := func() *entity.Transaction {
		return &entity.Transaction{
			TransactionID: "txn_1",
			UserID:        "u1",
			OperationType: entity.OperationWebhookRecharge,
			Amount:        300,
			Status:        entity.StatusFailed,
			RetryCount:    1,
			MaxRetries:    testMaxRetries,
			ReferenceID:   "evt_1",
		}
	}

	t.Run("re-drives failed transaction", func(t *testing.T) {
		f := newServiceFixture()
		retried := pendingTxn()
		retried.RetryCount = 2
		retried.Status = entity.StatusPending

		f.transactionRepo.On("IncrementRetry", mock.Anything, "txn_1").Return(retried, nil)
		f.accountRepo.On("GetOrCreate", mock.Anything, "u1", testInitialGrant).
			Return(&entity.Account{UserID: "u1", Balance: testInitialGrant}, nil)
		f.accountRepo.On("Increment", mock.Anything, "u1", int64(300)).
			Return(&entity.Account{UserID: "u1", Balance: 420}, nil)
		f.transactionRepo.On("Update", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Status == entity.StatusCompleted
		})).Return(nil)

		result, err := f.service.RetryRecharge(context.Background(), pendingTxn())

		assert.NoError(t, err)
		assert.Equal(t, int64(420), result.Balance)
		assert.Equal(t, 2, result.Transaction.RetryCount)
	})

	t.Run("ceiling rejection is terminal", func(t *testing.T) {
		f := newServiceFixture()
		f.transactionRepo.On("IncrementRetry", mock.Anything, "txn_1").
			Return(nil, errs.ErrRetriesExhausted)

		_, err := f.service.RetryRecharge(context.Background(), pendingTxn())

		assert.ErrorIs(t, err, errs.ErrRetriesExhausted)
		assert.False(t, errs.IsRetryableError(err))
		f.accountRepo.AssertNotCalled(t, "Increment")
	})

	t.Run("attempt completed under a racing delivery is surfaced as duplicate", func(t *testing.T) {
		f := newServiceFixture()
		f.transactionRepo.On("IncrementRetry", mock.Anything, "txn_1").
			Return(nil, errs.ErrDuplicateEvent)

		_, err := f.service.RetryRecharge(context.Background(), pendingTxn())

		assert.ErrorIs(t, err, errs.ErrDuplicateEvent)
		assert.False(t, errs.IsRetryableError(err))
		f.accountRepo.AssertNotCalled(t, "Increment")
	})

	t.Run("in-flight attempt is retryable without a second credit", func(t *testing.T) {
		f := newServiceFixture()
		f.transactionRepo.On("IncrementRetry", mock.Anything, "txn_1").
			Return(nil, errs.ErrAttemptInFlight)

		_, err := f.service.RetryRecharge(context.Background(), pendingTxn())

		assert.ErrorIs(t, err, errs.ErrAttemptInFlight)
		assert.True(t, errs.IsRetryableError(err))
		f.accountRepo.AssertNotCalled(t, "Increment")
	})

	t.Run("transient failure bumping the count is retryable", func(t *testing.T) {
		f := newServiceFixture()
		f.transactionRepo.On("IncrementRetry", mock.Anything, "txn_1").
			Return(nil, errs.ErrTransientStorage)

		_, err := f.service.RetryRecharge(context.Background(), pendingTxn())

		assert.True(t, errs.IsRetryableError(err))
	})
}

func TestService_ListTransactions(t *testing.T) {
	t.Run("clamps pagination bounds", func(t *testing.T) {
		f := newServiceFixture()
		records := []*entity.Transaction{{TransactionID: "txn_2"}, {TransactionID: "txn_1"}}
		f.transactionRepo.On("ListByUser", mock.Anything, "u1", defaultPageSize, 0).Return(records, nil)

		got, err := f.service.ListTransactions(context.Background(), "u1", 0, -5)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		f.transactionRepo.AssertExpectations(t)
	})

	t.Run("caps oversized limit", func(t *testing.T) {
		f := newServiceFixture()
		f.transactionRepo.On("ListByUser", mock.Anything, "u1", maxPageSize, 10).
			Return([]*entity.Transaction{}, nil)

		_, err := f.service.ListTransactions(context.Background(), "u1", 5000, 10)

		assert.NoError(t, err)
		f.transactionRepo.AssertExpectations(t)
	})

	t.Run("rejects empty user ID", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.ListTransactions(context.Background(), "", 10, 0)

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestService_GetTransactionStatus(t *testing.T) {
	t.Run("returns the record", func(t *testing.T) {
		f := newServiceFixture()
		txn := &entity.Transaction{TransactionID: "txn_1", Status: entity.StatusCompleted}
		f.transactionRepo.On("GetByTransactionID", mock.Anything, "txn_1").Return(txn, nil)

		got, err := f.service.GetTransactionStatus(context.Background(), "txn_1")

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, got.Status)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		f := newServiceFixture()
		f.transactionRepo.On("GetByTransactionID", mock.Anything, "txn_missing").
			Return(nil, errs.ErrTransactionNotFound)

		_, err := f.service.GetTransactionStatus(context.Background(), "txn_missing")

		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})

	t.Run("rejects empty transaction ID", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.GetTransactionStatus(context.Background(), "")

		assert.ErrorIs(t, err, errs.ErrInvalidTransactionID)
	})
}
