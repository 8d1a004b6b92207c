package mocks

import (
	"context"

	"github.com/ersonp/famitree/internal/domain/ports"
)

// PersonIndex is a mock implementation of ports.PersonIndex.
type PersonIndex struct {
	Vectors []ports.PersonVector
	Hits    []ports.PersonHit
	Err     error

	// Call tracking
	SaveBatchCallCount int
	DeleteAllCallCount int
	DeletedIDs         []string
}

// SaveBatch appends vectors.
func (m *PersonIndex) SaveBatch(ctx context.Context, vectors []ports.PersonVector) error {
	m.SaveBatchCallCount++
	if m.Err != nil {
		return m.Err
	}
	m.Vectors = append(m.Vectors, vectors...)
	return nil
}

// Search returns the configured hits, truncated to limit.
func (m *PersonIndex) Search(ctx context.Context, embedding []float32, limit int) ([]ports.PersonHit, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit < len(m.Hits) {
		return m.Hits[:limit], nil
	}
	return m.Hits, nil
}

// Delete records the id.
func (m *PersonIndex) Delete(ctx context.Context, personID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.DeletedIDs = append(m.DeletedIDs, personID)
	return nil
}

// DeleteAll clears stored vectors.
func (m *PersonIndex) DeleteAll(ctx context.Context) error {
	m.DeleteAllCallCount++
	if m.Err != nil {
		return m.Err
	}
	m.Vectors = nil
	return nil
}
