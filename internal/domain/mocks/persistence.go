package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/famitree/internal/domain/ports"
)

// Persistence is a mock implementation of ports.Persistence. It is safe for
// use from the store's background flusher.
type Persistence struct {
	mu      sync.Mutex
	Data    []byte
	LoadErr error
	SaveErr error

	// Call tracking
	LoadCallCount int
	SaveCallCount int

	// Saved is signalled after every successful Save when non-nil.
	Saved chan []byte
}

// LoadInitial returns the stored blob, or ports.ErrNotFound when empty.
func (m *Persistence) LoadInitial(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCallCount++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Data == nil {
		return nil, ports.ErrNotFound
	}
	return m.Data, nil
}

// Save stores the blob unless SaveErr is set.
func (m *Persistence) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	m.SaveCallCount++
	if m.SaveErr != nil {
		m.mu.Unlock()
		return m.SaveErr
	}
	m.Data = append([]byte(nil), data...)
	saved := m.Saved
	m.mu.Unlock()

	if saved != nil {
		saved <- data
	}
	return nil
}

// SetData replaces the stored blob.
func (m *Persistence) SetData(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = data
}

// Snapshot returns the stored blob and the number of Save calls.
func (m *Persistence) Snapshot() ([]byte, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Data, m.SaveCallCount
}

// SetSaveErr changes the error returned by Save.
func (m *Persistence) SetSaveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveErr = err
}
