package handlers

import (
	"fmt"
	"time"

	"github.com/ersonp/famitree/internal/domain/services"
)

// ReminderHandler lists upcoming birthdays and death anniversaries.
type ReminderHandler struct {
	source       services.GraphSource
	service      *services.ReminderService
	defaultLimit int
}

// NewReminderHandler creates a new ReminderHandler. A non-positive
// defaultLimit falls back to services.DefaultReminderLimit.
func NewReminderHandler(source services.GraphSource, defaultLimit int) *ReminderHandler {
	if defaultLimit <= 0 {
		defaultLimit = services.DefaultReminderLimit
	}
	return &ReminderHandler{
		source:       source,
		service:      services.NewReminderService(source),
		defaultLimit: defaultLimit,
	}
}

// RemindersResult contains both reminder lists.
type RemindersResult struct {
	Birthdays     []services.Reminder `json:"birthdays"`
	Anniversaries []services.Reminder `json:"anniversaries"`
}

// Handle returns reminders for everyone, or for the branch under branchRootID.
func (h *ReminderHandler) Handle(branchRootID string, limit int, now time.Time) (*RemindersResult, error) {
	if branchRootID != "" && !h.source.Graph().Has(branchRootID) {
		return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, branchRootID)
	}
	if limit <= 0 {
		limit = h.defaultLimit
	}
	return &RemindersResult{
		Birthdays:     h.service.UpcomingBirthdays(branchRootID, limit, now),
		Anniversaries: h.service.UpcomingDeathAnniversaries(branchRootID, limit, now),
	}, nil
}
