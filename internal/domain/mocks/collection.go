package mocks

import "context"

// CollectionManager is a mock implementation of ports.CollectionManager.
type CollectionManager struct {
	EnsureErr error
	DeleteErr error

	// VectorSize is the size passed to the last EnsureCollection call.
	VectorSize                uint64
	EnsureCollectionCallCount int
	DeleteCollectionCallCount int
}

// EnsureCollection records the requested size and returns EnsureErr.
func (m *CollectionManager) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	m.EnsureCollectionCallCount++
	m.VectorSize = vectorSize
	return m.EnsureErr
}

// DeleteCollection returns DeleteErr.
func (m *CollectionManager) DeleteCollection(ctx context.Context) error {
	m.DeleteCollectionCallCount++
	return m.DeleteErr
}
