package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invomail/internal/domain"
)

// MockProcessor is a mock implementation of service.Processor.
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) ProcessNotification(ctx context.Context, body []byte) (domain.Outcome, error) {
	args := m.Called(ctx, body)
	return args.Get(0).(domain.Outcome), args.Error(1)
}
