package services

import (
	"time"

	"github.com/ersonp/famitree/internal/domain/entities"
)

// AgeBand is an inclusive age range. Max < 0 means no upper bound.
type AgeBand struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// AgeBands are the ranges reported by SummaryService.
var AgeBands = []AgeBand{
	{Label: "0-5", Min: 0, Max: 5},
	{Label: "6-17", Min: 6, Max: 17},
	{Label: "18-35", Min: 18, Max: 35},
	{Label: "36-50", Min: 36, Max: 50},
	{Label: "51-70", Min: 51, Max: 70},
	{Label: "71+", Min: 71, Max: -1},
}

// Contains reports whether age falls in the band.
func (b AgeBand) Contains(age int) bool {
	return age >= b.Min && (b.Max < 0 || age <= b.Max)
}

// BandCount is the number of people in one age band.
type BandCount struct {
	Band  AgeBand `json:"band"`
	Count int     `json:"count"`
}

// Summary holds tree statistics.
type Summary struct {
	People             int         `json:"people"`
	Living             int         `json:"living"`
	Deceased           int         `json:"deceased"`
	Male               int         `json:"male"`
	Female             int         `json:"female"`
	LivingMale         int         `json:"living_male"`
	LivingFemale       int         `json:"living_female"`
	MaleDeceased60Plus int         `json:"male_deceased_60_plus"`
	ParentChildEdges   int         `json:"parent_child_edges"`
	SpouseEdges        int         `json:"spouse_edges"`
	Roots              int         `json:"roots"`
	Generations        int         `json:"generations"`
	AgeBands           []BandCount `json:"age_bands"`
}

// SummaryService computes statistics over the current tree.
type SummaryService struct {
	source GraphSource
}

// NewSummaryService creates a new summary service.
func NewSummaryService(source GraphSource) *SummaryService {
	return &SummaryService{source: source}
}

// Summarize computes statistics for everyone, or for the branch of
// branchRootID (descendants plus their spouses) when it is set. Ages are
// measured at death for deceased people.
func (s *SummaryService) Summarize(branchRootID string, now time.Time) Summary {
	g := s.source.Graph()
	people := peopleInScope(g, branchRootID, g.BranchPersonIDs)

	sum := Summary{People: len(people), AgeBands: make([]BandCount, len(AgeBands))}
	for i, b := range AgeBands {
		sum.AgeBands[i].Band = b
	}

	inScope := make(IDSet, len(people))
	for _, p := range people {
		inScope[p.ID] = struct{}{}
		dead := p.IsDeceased()
		if dead {
			sum.Deceased++
		} else {
			sum.Living++
		}
		switch p.Gender {
		case entities.GenderMale:
			sum.Male++
			if !dead {
				sum.LivingMale++
			}
		case entities.GenderFemale:
			sum.Female++
			if !dead {
				sum.LivingFemale++
			}
		}

		age, ok := p.BirthDate.Age(p.DeathDate, now)
		if !ok {
			continue
		}
		if dead && p.Gender == entities.GenderMale && age >= 60 {
			sum.MaleDeceased60Plus++
		}
		for i, b := range AgeBands {
			if b.Contains(age) {
				sum.AgeBands[i].Count++
			}
		}
	}

	for _, r := range g.Relationships() {
		_, a := inScope[r.PersonID]
		_, b := inScope[r.RelatedID]
		if !a || !b {
			continue
		}
		if r.Type.IsParentChild() {
			sum.ParentChildEdges++
		} else if r.Type == entities.RelationSpouse {
			sum.SpouseEdges++
		}
	}

	if branchRootID == "" {
		sum.Roots = len(g.BuildTree())
		sum.Generations = g.Generations()
	} else if g.Has(branchRootID) {
		sum.Roots = 1
		cache := make(LevelCache)
		for _, p := range people {
			if l := g.PersonLevelInBranch(p.ID, branchRootID, inScope, cache); l > sum.Generations {
				sum.Generations = l
			}
		}
	}
	return sum
}
