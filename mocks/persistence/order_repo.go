package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	"github.com/jasper326-web/artisan-credits/internal/domain/port/persistence"
)

// MockPaymentOrderRepository is a testify mock for the PaymentOrderRepository port
type MockPaymentOrderRepository struct {
	mock.Mock
}

// Claim mocks the Claim method
func (m *MockPaymentOrderRepository) Claim(ctx context.Context, order *entity.PaymentOrder) (persistence.ClaimResult, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(persistence.ClaimResult), args.Error(1)
}

// GetByExternalID mocks the GetByExternalID method
func (m *MockPaymentOrderRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.PaymentOrder, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentOrder), args.Error(1)
}

// UpdateStatus mocks the UpdateStatus method
func (m *MockPaymentOrderRepository) UpdateStatus(ctx context.Context, externalID string, status entity.OrderStatus) error {
	args := m.Called(ctx, externalID, status)
	return args.Error(0)
}
