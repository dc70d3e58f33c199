package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/usecase"
)

// MockCreditUseCase is a testify mock for the CreditUseCase port
type MockCreditUseCase struct {
	mock.Mock
}

// GetBalance mocks the GetBalance method
func (m *MockCreditUseCase) GetBalance(ctx context.Context, userID string) (*entity.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

// Recharge mocks the Recharge method
func (m *MockCreditUseCase) Recharge(ctx context.Context, req usecase.RechargeRequest) (*usecase.RechargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RechargeResult), args.Error(1)
}

// RetryRecharge mocks the RetryRecharge method
func (m *MockCreditUseCase) RetryRecharge(ctx context.Context, transaction *entity.Transaction) (*usecase.RechargeResult, error) {
	args := m.Called(ctx, transaction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RechargeResult), args.Error(1)
}

// ListTransactions mocks the ListTransactions method
func (m *MockCreditUseCase) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

// GetTransactionStatus mocks the GetTransactionStatus method
func (m *MockCreditUseCase) GetTransactionStatus(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}
