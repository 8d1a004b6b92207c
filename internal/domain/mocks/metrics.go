package mocks

import "sync"

// StoreMetrics is a mock implementation of ports.StoreMetrics.
type StoreMetrics struct {
	mu             sync.Mutex
	Applied        map[string]int
	Denied         map[string]int
	PersistFailure int
}

// NewStoreMetrics creates an empty StoreMetrics.
func NewStoreMetrics() *StoreMetrics {
	return &StoreMetrics{Applied: map[string]int{}, Denied: map[string]int{}}
}

// MutationApplied counts an applied mutation.
func (m *StoreMetrics) MutationApplied(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Applied[action]++
}

// MutationDenied counts a denied mutation.
func (m *StoreMetrics) MutationDenied(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Denied[action]++
}

// PersistFailed counts a failed save.
func (m *StoreMetrics) PersistFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistFailure++
}

// PersistFailures returns the failed save count.
func (m *StoreMetrics) PersistFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PersistFailure
}
