package ports

import (
	"context"

	"github.com/ersonp/famitree/internal/domain/entities"
)

// RelationalDB is the SQL-backed persistence. Besides the blob contract it
// keeps a version history of saved snapshots and the audit log.
type RelationalDB interface {
	Persistence
	AuditLog

	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// ListSnapshots returns saved snapshot headers, newest first.
	ListSnapshots(ctx context.Context, limit int) ([]entities.SnapshotInfo, error)

	// LoadSnapshot returns the blob saved as the given version.
	LoadSnapshot(ctx context.Context, version int64) ([]byte, error)

	// PruneSnapshots keeps the newest keep snapshots and returns how many were deleted.
	PruneSnapshots(ctx context.Context, keep int) (int64, error)

	// FindAuditLog finds audit log entries for a person or relationship id.
	FindAuditLog(ctx context.Context, subjectID string) ([]entities.AuditEntry, error)

	// FindAuditLogByAction finds audit log entries by action type.
	FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error)
}
