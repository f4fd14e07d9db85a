package mocks

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragcore/internal/core/domain"
)

// MockRecordSource is a mock implementation of RecordSource for testing
type MockRecordSource struct {
	documents  []*domain.Document
	failAlways bool
}

// NewMockRecordSource creates a new MockRecordSource
func NewMockRecordSource(docs ...*domain.Document) *MockRecordSource {
	return &MockRecordSource{documents: docs}
}

func (m *MockRecordSource) FetchAll(ctx context.Context) ([]*domain.Document, error) {
	if m.failAlways {
		return nil, fmt.Errorf("record source unavailable")
	}
	return m.documents, nil
}

func (m *MockRecordSource) HealthCheck(ctx context.Context) error {
	if m.failAlways {
		return fmt.Errorf("record source unavailable")
	}
	return nil
}

func (m *MockRecordSource) Close() error {
	return nil
}

// Helper methods for testing

func (m *MockRecordSource) SetDocuments(docs []*domain.Document) {
	m.documents = docs
}

func (m *MockRecordSource) SetFailAlways(fail bool) {
	m.failAlways = fail
}
