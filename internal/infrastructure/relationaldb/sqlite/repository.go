// Package sqlite provides a SQLite implementation of the RelationalDB interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/ports"
	"github.com/ersonp/famitree/internal/infrastructure/config"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.RelationalDB using SQLite. Every saved family
// tree is kept as a numbered snapshot; the newest one is loaded on start.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One connection: PRAGMAs are per connection and ":memory:" is per
	// connection too.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Saved family trees, newest last
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		version INTEGER NOT NULL,
		people INTEGER NOT NULL,
		edges INTEGER NOT NULL,
		data BLOB NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_version ON snapshots(version);

	-- Audit log (tracks all mutations)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		user_id TEXT,
		subject_id TEXT,
		details TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_subject ON audit_log(subject_id);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// LoadInitial returns the most recently saved snapshot.
func (r *Repository) LoadInitial(ctx context.Context) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest snapshot: %w", err)
	}
	return data, nil
}

// Save appends a snapshot. The blob must be an encoded FamilyTree.
func (r *Repository) Save(ctx context.Context, data []byte) error {
	tree, err := entities.DecodeFamilyTree(data)
	if err != nil {
		return err
	}

	query := `INSERT INTO snapshots (version, people, edges, data, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		int64(tree.Version),
		len(tree.People),
		len(tree.Relationships),
		data,
		timeNow().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns saved snapshot headers, newest first.
func (r *Repository) ListSnapshots(ctx context.Context, limit int) ([]entities.SnapshotInfo, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT version, people, edges, length(data), created_at
		FROM snapshots
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var infos []entities.SnapshotInfo
	for rows.Next() {
		var info entities.SnapshotInfo
		if err := rows.Scan(&info.Version, &info.People, &info.Edges, &info.Size, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// LoadSnapshot returns the newest blob saved with the given version.
func (r *Repository) LoadSnapshot(ctx context.Context, version int64) ([]byte, error) {
	var data []byte
	query := `SELECT data FROM snapshots WHERE version = ? ORDER BY id DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, version).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot version %d: %w", version, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return data, nil
}

// PruneSnapshots deletes all but the newest keep snapshots and returns the
// number removed.
func (r *Repository) PruneSnapshots(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return 0, errors.New("keep must be at least 1")
	}
	query := `DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`
	res, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	return res.RowsAffected()
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action, userID, subjectID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `INSERT INTO audit_log (action, user_id, subject_id, details, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, nullString(userID), nullString(subjectID), detailsJSON, timeNow().UTC())
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// FindAuditLog finds audit log entries for a person or relationship.
func (r *Repository) FindAuditLog(ctx context.Context, subjectID string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, user_id, subject_id, details, created_at
		FROM audit_log
		WHERE subject_id = ?
		ORDER BY id DESC
	`
	return r.queryAuditLog(ctx, query, subjectID)
}

// FindAuditLogByAction finds audit log entries by action type. An empty
// action matches every entry.
func (r *Repository) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, action, user_id, subject_id, details, created_at
		FROM audit_log
		WHERE ? = '' OR action = ?
		ORDER BY id DESC
		LIMIT ?
	`
	return r.queryAuditLog(ctx, query, action, action, limit)
}

// queryAuditLog is a helper to execute audit log queries.
func (r *Repository) queryAuditLog(ctx context.Context, query string, args ...any) ([]entities.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var userID, subjectID, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&userID,
			&subjectID,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.UserID = userID.String
		entry.SubjectID = subjectID.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
