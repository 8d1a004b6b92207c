package services

import (
	"cmp"
	"slices"
	"time"

	"github.com/ersonp/famitree/internal/domain/entities"
)

// DefaultReminderLimit is used when a caller passes a non-positive limit.
const DefaultReminderLimit = 10

// GraphSource hands out the current graph. FamilyStore implements it.
type GraphSource interface {
	Graph() *Graph
}

// Reminder is an upcoming birthday or death anniversary.
type Reminder struct {
	Person    entities.Person `json:"person"`
	Date      time.Time       `json:"date"`
	DaysUntil int             `json:"days_until"`
	// Years is the age being turned, or the years since death. Zero when the
	// year is unknown.
	Years int `json:"years,omitempty"`
}

// ReminderService lists upcoming anniversaries.
type ReminderService struct {
	source GraphSource
}

// NewReminderService creates a new reminder service.
func NewReminderService(source GraphSource) *ReminderService {
	return &ReminderService{source: source}
}

// UpcomingBirthdays returns living people ordered by days until their next
// birthday. Dates without a known month and day are skipped.
func (s *ReminderService) UpcomingBirthdays(branchRootID string, limit int, now time.Time) []Reminder {
	return s.upcoming(branchRootID, limit, now, func(p entities.Person) (entities.FlexDate, bool) {
		return p.BirthDate, !p.IsDeceased()
	})
}

// UpcomingDeathAnniversaries returns deceased people ordered by days until
// the anniversary of their death.
func (s *ReminderService) UpcomingDeathAnniversaries(branchRootID string, limit int, now time.Time) []Reminder {
	return s.upcoming(branchRootID, limit, now, func(p entities.Person) (entities.FlexDate, bool) {
		return p.DeathDate, p.IsDeceased()
	})
}

func (s *ReminderService) upcoming(
	branchRootID string,
	limit int,
	now time.Time,
	pick func(entities.Person) (entities.FlexDate, bool),
) []Reminder {
	if limit <= 0 {
		limit = DefaultReminderLimit
	}
	g := s.source.Graph()
	people := peopleInScope(g, branchRootID, g.PersonIDsInBranch)

	items := make([]Reminder, 0)
	for _, p := range people {
		date, ok := pick(p)
		if !ok {
			continue
		}
		next, days, ok := date.NextOccurrence(now)
		if !ok {
			continue
		}
		r := Reminder{Person: p, Date: next, DaysUntil: days}
		if y, ok := date.Year(); ok && next.Year() > y {
			r.Years = next.Year() - y
		}
		items = append(items, r)
	}

	slices.SortStableFunc(items, func(a, b Reminder) int {
		return cmp.Compare(a.DaysUntil, b.DaysUntil)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// peopleInScope returns everyone when rootID is empty, otherwise the people in
// the set produced by branch, in insertion order.
func peopleInScope(g *Graph, rootID string, branch func(string) IDSet) []entities.Person {
	if rootID == "" {
		return g.People()
	}
	ids := branch(rootID)
	out := make([]entities.Person, 0, len(ids))
	for _, p := range g.People() {
		if _, ok := ids[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}
