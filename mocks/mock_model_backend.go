package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"insureport/internal/domain"
	"insureport/internal/port"
)

// MockModelBackend is a mock implementation of port.ModelBackend.
type MockModelBackend struct {
	mock.Mock
	Backend domain.BackendID
}

// NewMockModelBackend creates a mock bound to a backend id.
func NewMockModelBackend(id domain.BackendID) *MockModelBackend {
	return &MockModelBackend{Backend: id}
}

func (m *MockModelBackend) ID() domain.BackendID {
	return m.Backend
}

func (m *MockModelBackend) Invoke(ctx context.Context, input port.InvokeInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}
