package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invomail/internal/port"
)

// MockDocumentModel is a mock implementation of port.DocumentModel.
type MockDocumentModel struct {
	mock.Mock
}

func (m *MockDocumentModel) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ExtractOutput), args.Error(1)
}
