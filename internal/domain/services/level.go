package services

// LevelCache memoizes generation levels. Use a fresh cache per query context;
// a cache filled for one branch root is wrong for another.
type LevelCache map[string]int

// PersonLevel returns the shortest-path generation of personID: a person
// without parents is level 1, anyone else is one more than their shallowest
// parent. Returns 0 for an unknown id. A nil cache is allowed.
func (g *Graph) PersonLevel(personID string, cache LevelCache) int {
	if !g.Has(personID) {
		return 0
	}
	if cache == nil {
		cache = make(LevelCache)
	}
	lc := levelCalc{g: g, cache: cache, visiting: make(map[string]struct{})}
	lvl, _ := lc.level(personID)
	return lvl
}

// PersonLevelInBranch is PersonLevel restricted to a branch: only parents in
// branchIDs count and rootID is level 1 whatever its real parents are. A nil
// branchIDs means BranchPersonIDs(rootID).
func (g *Graph) PersonLevelInBranch(personID, rootID string, branchIDs IDSet, cache LevelCache) int {
	if !g.Has(personID) {
		return 0
	}
	if branchIDs == nil {
		branchIDs = g.BranchPersonIDs(rootID)
	}
	if cache == nil {
		cache = make(LevelCache)
	}
	lc := levelCalc{
		g:        g,
		cache:    cache,
		visiting: make(map[string]struct{}),
		rootID:   rootID,
		branch:   branchIDs,
	}
	lvl, _ := lc.level(personID)
	return lvl
}

type levelCalc struct {
	g        *Graph
	cache    LevelCache
	visiting map[string]struct{}
	rootID   string
	branch   IDSet
}

// level ignores parents that are still on the recursion stack so cyclic data
// terminates. A result that skipped such a parent depends on the stack and is
// reported as partial; only complete results go into the cache, so a query
// answers the same whatever was asked before it.
func (lc *levelCalc) level(id string) (lvl int, partial bool) {
	if lvl, ok := lc.cache[id]; ok {
		return lvl, false
	}
	if lc.branch != nil && id == lc.rootID {
		lc.cache[id] = 1
		return 1, false
	}

	lc.visiting[id] = struct{}{}
	best := 0
	for _, pid := range lc.g.ParentIDs(id) {
		if lc.branch != nil {
			if _, in := lc.branch[pid]; !in {
				continue
			}
		}
		if _, onStack := lc.visiting[pid]; onStack {
			partial = true
			continue
		}
		if !lc.g.Has(pid) {
			continue
		}
		l, p := lc.level(pid)
		partial = partial || p
		if best == 0 || l < best {
			best = l
		}
	}
	delete(lc.visiting, id)

	lvl = best + 1
	if !partial {
		lc.cache[id] = lvl
	}
	return lvl, partial
}

// Generations returns the deepest PersonLevel among everyone in the graph.
func (g *Graph) Generations() int {
	cache := make(LevelCache)
	deepest := 0
	for _, p := range g.People() {
		if l := g.PersonLevel(p.ID, cache); l > deepest {
			deepest = l
		}
	}
	return deepest
}
