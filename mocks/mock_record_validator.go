package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"insureport/internal/domain"
	"insureport/internal/port"
)

// MockRecordValidator is a mock implementation of port.RecordValidator.
type MockRecordValidator struct {
	mock.Mock
}

func (m *MockRecordValidator) Validate(ctx context.Context, input port.ValidateInput) (*domain.ValidatedRecord, *domain.ValidateMeta, error) {
	args := m.Called(ctx, input)
	var rec *domain.ValidatedRecord
	var meta *domain.ValidateMeta
	if args.Get(0) != nil {
		rec = args.Get(0).(*domain.ValidatedRecord)
	}
	if args.Get(1) != nil {
		meta = args.Get(1).(*domain.ValidateMeta)
	}
	return rec, meta, args.Error(2)
}
