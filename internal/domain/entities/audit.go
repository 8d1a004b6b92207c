package entities

import "time"

// Audit actions recorded by the store.
const (
	ActionAddPerson          = "person.add"
	ActionUpdatePerson       = "person.update"
	ActionDeletePerson       = "person.delete"
	ActionImportPerson       = "person.import"
	ActionAddRelationship    = "relationship.add"
	ActionRemoveRelationship = "relationship.remove"
)

// AuditEntry represents a logged mutation.
type AuditEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	UserID    string         `json:"user_id,omitempty"`
	SubjectID string         `json:"subject_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// SnapshotInfo describes one saved version of the family tree.
type SnapshotInfo struct {
	Version   int64     `json:"version"`
	People    int       `json:"people"`
	Edges     int       `json:"edges"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
