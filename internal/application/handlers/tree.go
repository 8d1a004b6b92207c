package handlers

import (
	"fmt"
	"time"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/services"
)

// DefaultAncestorLevels is used when no level count is given.
const DefaultAncestorLevels = 5

// TreeHandler builds trees, branches, ancestor chains and summaries from the
// current snapshot.
type TreeHandler struct {
	source  services.GraphSource
	summary *services.SummaryService
}

// NewTreeHandler creates a new TreeHandler.
func NewTreeHandler(source services.GraphSource) *TreeHandler {
	return &TreeHandler{
		source:  source,
		summary: services.NewSummaryService(source),
	}
}

// TreeOptions selects which forest to build.
type TreeOptions struct {
	Root     string // build from this person only
	MaleOnly bool   // keep male roots only; ignored with Root
	Query    string // prune to matching names
}

// TreeResult is a built forest with per-node levels.
type TreeResult struct {
	Version uint64               `json:"version"`
	Nodes   []*entities.TreeNode `json:"nodes"`
	Levels  map[string]int       `json:"levels"`
	Count   int                  `json:"count"`
}

// HandleTree builds the forest described by opts.
func (h *TreeHandler) HandleTree(opts TreeOptions) (*TreeResult, error) {
	g := h.source.Graph()

	var nodes []*entities.TreeNode
	switch {
	case opts.Root != "":
		if !g.Has(opts.Root) {
			return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, opts.Root)
		}
		nodes = g.BuildTreeRootedAt(opts.Root)
	case opts.MaleOnly:
		nodes = g.BuildTreeMaleRootsOnly()
	default:
		nodes = g.BuildTree()
	}
	nodes = services.FilterTreeByQuery(nodes, opts.Query)

	return &TreeResult{
		Version: g.Version(),
		Nodes:   nodes,
		Levels:  services.PersonLevelFromNodes(nodes),
		Count:   services.CountNodes(nodes),
	}, nil
}

// BranchMember is one person of a branch with their level inside it.
type BranchMember struct {
	Person entities.Person `json:"person"`
	Level  int             `json:"level"`
	Spouse bool            `json:"spouse"`
}

// BranchResult lists a branch in snapshot order.
type BranchResult struct {
	Root    entities.Person `json:"root"`
	Members []BranchMember  `json:"members"`
}

// HandleBranch returns the root, its descendants and their spouses.
func (h *TreeHandler) HandleBranch(rootID string) (*BranchResult, error) {
	g := h.source.Graph()
	root, ok := g.Person(rootID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, rootID)
	}

	descendants := g.PersonIDsInBranch(rootID)
	scope := g.BranchPersonIDs(rootID)
	cache := make(services.LevelCache)

	result := &BranchResult{Root: root, Members: make([]BranchMember, 0, len(scope))}
	for _, p := range g.People() {
		if _, in := scope[p.ID]; !in {
			continue
		}
		_, blood := descendants[p.ID]
		result.Members = append(result.Members, BranchMember{
			Person: p,
			Level:  g.PersonLevelInBranch(p.ID, rootID, scope, cache),
			Spouse: !blood,
		})
	}
	return result, nil
}

// AncestorsResult holds ancestor generations, oldest first.
type AncestorsResult struct {
	Person entities.Person     `json:"person"`
	Levels [][]entities.Person `json:"levels"`
}

// HandleAncestors walks up at most levels generations from personID.
func (h *TreeHandler) HandleAncestors(personID string, levels int) (*AncestorsResult, error) {
	if levels <= 0 {
		levels = DefaultAncestorLevels
	}
	g := h.source.Graph()
	p, ok := g.Person(personID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, personID)
	}
	return &AncestorsResult{Person: p, Levels: g.AncestorLevels(personID, levels)}, nil
}

// HandleSummary computes statistics for the whole tree or one branch.
func (h *TreeHandler) HandleSummary(branchRootID string, now time.Time) (services.Summary, error) {
	if branchRootID != "" && !h.source.Graph().Has(branchRootID) {
		return services.Summary{}, fmt.Errorf("%w: %s", ErrPersonNotFound, branchRootID)
	}
	return h.summary.Summarize(branchRootID, now), nil
}

// HandleSnapshot returns the full current state.
func (h *TreeHandler) HandleSnapshot() entities.FamilyTree {
	return h.source.Graph().Snapshot()
}
