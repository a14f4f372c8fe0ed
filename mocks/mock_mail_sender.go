package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invomail/internal/port"
)

// MockMailSender is a mock implementation of port.MailSender.
type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) Send(ctx context.Context, input port.SendInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}
