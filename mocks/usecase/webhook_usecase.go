package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jasper326-web/artisan-credits/internal/domain/port/usecase"
)

// MockWebhookUseCase is a testify mock for the WebhookUseCase port
type MockWebhookUseCase struct {
	mock.Mock
}

// Process mocks the Process method
func (m *MockWebhookUseCase) Process(ctx context.Context, payload []byte, signature string) *usecase.WebhookResult {
	args := m.Called(ctx, payload, signature)
	return args.Get(0).(*usecase.WebhookResult)
}
