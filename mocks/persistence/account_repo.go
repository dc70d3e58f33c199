package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
)

// MockAccountRepository is a testify mock for the AccountRepository port
type MockAccountRepository struct {
	mock.Mock
}

// GetOrCreate mocks the GetOrCreate method
func (m *MockAccountRepository) GetOrCreate(ctx context.Context, userID string, initialGrant int64) (*entity.Account, error) {
	args := m.Called(ctx, userID, initialGrant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

// GetByUserID mocks the GetByUserID method
func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID string) (*entity.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

// Increment mocks the Increment method
func (m *MockAccountRepository) Increment(ctx context.Context, userID string, delta int64) (*entity.Account, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}
