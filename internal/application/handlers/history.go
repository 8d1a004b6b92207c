package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/ports"
)

// HistoryHandler reads saved versions and the audit log.
type HistoryHandler struct {
	db ports.RelationalDB
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(db ports.RelationalDB) *HistoryHandler {
	return &HistoryHandler{db: db}
}

// HandleVersions lists saved versions, newest first.
func (h *HistoryHandler) HandleVersions(ctx context.Context, limit int) ([]entities.SnapshotInfo, error) {
	infos, err := h.db.ListSnapshots(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	return infos, nil
}

// HandleShowVersion decodes one saved version.
func (h *HistoryHandler) HandleShowVersion(ctx context.Context, version int64) (entities.FamilyTree, error) {
	data, err := h.db.LoadSnapshot(ctx, version)
	if err != nil {
		return entities.FamilyTree{}, err
	}
	return entities.DecodeFamilyTree(data)
}

// HandlePrune deletes all but the newest keep versions.
func (h *HistoryHandler) HandlePrune(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return 0, entities.NewValidationError("keep", "must be at least 1, got %d", keep)
	}
	n, err := h.db.PruneSnapshots(ctx, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning versions: %w", err)
	}
	return n, nil
}

// AuditOptions filters the audit log. SubjectID wins over Action.
type AuditOptions struct {
	SubjectID string
	Action    string
	Limit     int
}

// HandleAudit returns audit entries, newest first.
func (h *HistoryHandler) HandleAudit(ctx context.Context, opts AuditOptions) ([]entities.AuditEntry, error) {
	var (
		entries []entities.AuditEntry
		err     error
	)
	if opts.SubjectID != "" {
		entries, err = h.db.FindAuditLog(ctx, opts.SubjectID)
		if opts.Limit > 0 && len(entries) > opts.Limit {
			entries = entries[:opts.Limit]
		}
	} else {
		entries, err = h.db.FindAuditLogByAction(ctx, opts.Action, opts.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}
	return entries, nil
}
