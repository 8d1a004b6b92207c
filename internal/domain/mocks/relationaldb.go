package mocks

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/ports"
)

// RelationalDB is a mock implementation of ports.RelationalDB.
type RelationalDB struct {
	Persistence

	auditMu sync.Mutex
	Audit   []entities.AuditEntry
	Err     error

	PrunedKeep int
}

// NewRelationalDB creates a new mock RelationalDB.
func NewRelationalDB() *RelationalDB {
	return &RelationalDB{}
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *RelationalDB) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the database connection.
func (m *RelationalDB) Close() error {
	return nil
}

// LogAction records an audit entry.
func (m *RelationalDB) LogAction(_ context.Context, action, userID, subjectID string, details map[string]any) error {
	m.auditMu.Lock()
	defer m.auditMu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:        int64(len(m.Audit) + 1),
		Action:    action,
		UserID:    userID,
		SubjectID: subjectID,
		Details:   details,
		CreatedAt: time.Now(),
	})
	return nil
}

// Entries returns a copy of the recorded audit entries.
func (m *RelationalDB) Entries() []entities.AuditEntry {
	m.auditMu.Lock()
	defer m.auditMu.Unlock()
	return append([]entities.AuditEntry(nil), m.Audit...)
}

// ListSnapshots returns one header for the current blob.
func (m *RelationalDB) ListSnapshots(ctx context.Context, limit int) ([]entities.SnapshotInfo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	data, _ := m.Persistence.Snapshot()
	if data == nil {
		return nil, nil
	}
	tree, err := entities.DecodeFamilyTree(data)
	if err != nil {
		return nil, err
	}
	return []entities.SnapshotInfo{{
		Version: int64(tree.Version),
		People:  len(tree.People),
		Edges:   len(tree.Relationships),
		Size:    len(data),
	}}, nil
}

// LoadSnapshot returns the current blob when its version matches.
func (m *RelationalDB) LoadSnapshot(ctx context.Context, version int64) ([]byte, error) {
	data, _ := m.Persistence.Snapshot()
	if data == nil {
		return nil, ports.ErrNotFound
	}
	tree, err := entities.DecodeFamilyTree(data)
	if err != nil {
		return nil, err
	}
	if int64(tree.Version) != version {
		return nil, ports.ErrNotFound
	}
	return data, nil
}

// PruneSnapshots records keep and deletes nothing; the mock holds one blob.
func (m *RelationalDB) PruneSnapshots(_ context.Context, keep int) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.PrunedKeep = keep
	return 0, nil
}

// FindAuditLog finds audit log entries for a subject, newest first.
func (m *RelationalDB) FindAuditLog(_ context.Context, subjectID string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.AuditEntry
	for _, e := range m.newestFirst() {
		if e.SubjectID == subjectID {
			out = append(out, e)
		}
	}
	return out, nil
}

// FindAuditLogByAction finds audit log entries by action type, newest first.
// An empty action matches every entry.
func (m *RelationalDB) FindAuditLogByAction(_ context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.AuditEntry
	for _, e := range m.newestFirst() {
		if action == "" || e.Action == action {
			out = append(out, e)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *RelationalDB) newestFirst() []entities.AuditEntry {
	entries := m.Entries()
	slices.Reverse(entries)
	return entries
}
