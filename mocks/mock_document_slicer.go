package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockDocumentSlicer is a mock implementation of port.DocumentSlicer.
type MockDocumentSlicer struct {
	mock.Mock
}

func (m *MockDocumentSlicer) PageCount(doc []byte) (int, error) {
	args := m.Called(doc)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentSlicer) ExtractPages(doc []byte, from, to int) ([]byte, error) {
	args := m.Called(doc, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
