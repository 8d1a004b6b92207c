package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned by LoadInitial when nothing has been saved yet.
var ErrNotFound = errors.New("not found")

// Persistence stores the family tree as an opaque blob.
type Persistence interface {
	// LoadInitial returns the last saved blob, or ErrNotFound.
	LoadInitial(ctx context.Context) ([]byte, error)

	// Save replaces the stored blob.
	Save(ctx context.Context, data []byte) error
}

// AuditLog records store mutations. Failures never block a mutation.
type AuditLog interface {
	// LogAction logs an action to the audit log.
	LogAction(ctx context.Context, action, userID, subjectID string, details map[string]any) error
}
