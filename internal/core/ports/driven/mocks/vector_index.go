package mocks

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/ragcore/internal/core/domain"
)

// MockVectorIndex is an in-memory mock implementation of VectorIndex.
// Query ranks stored documents by cosine distance to the query embedding.
type MockVectorIndex struct {
	mu         sync.Mutex
	docs        map[string]*domain.IndexedDocument
	failUpsert  bool
	failQuery   bool
	QueryCalls  int
	UpsertCalls int
}

// NewMockVectorIndex creates a new MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{
		docs: make(map[string]*domain.IndexedDocument),
	}
}

func (m *MockVectorIndex) Upsert(ctx context.Context, docs []*domain.IndexedDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpsertCalls++
	if m.failUpsert {
		return domain.ErrIndexQuery
	}
	for _, doc := range docs {
		m.docs[doc.StorageID] = doc
	}
	return nil
}

func (m *MockVectorIndex) Query(ctx context.Context, embedding []float32, k int) ([]*domain.RetrievedMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCalls++
	if m.failQuery {
		return nil, domain.ErrIndexQuery
	}

	matches := make([]*domain.RetrievedMatch, 0, len(m.docs))
	for _, doc := range m.docs {
		matches = append(matches, &domain.RetrievedMatch{
			Content:  doc.Content,
			Metadata: domain.MatchMetadata{Type: doc.Type, ID: doc.SourceID},
			Distance: cosineDistance(embedding, doc.Embedding),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (m *MockVectorIndex) HealthCheck(ctx context.Context) error {
	if m.failQuery {
		return domain.ErrIndexQuery
	}
	return nil
}

// Count returns the number of stored documents
func (m *MockVectorIndex) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

// StorageIDs returns every stored document ID
func (m *MockVectorIndex) StorageIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	return ids
}

// Helper methods for testing

func (m *MockVectorIndex) SetFailUpsert(fail bool) {
	m.failUpsert = fail
}

func (m *MockVectorIndex) SetFailQuery(fail bool) {
	m.failQuery = fail
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
