package services

// IDSet is a set of person ids.
type IDSet = map[string]struct{}

// PersonIDsInBranch returns rootID and every descendant reachable through
// parent-child edges. Spouses are not included. Unknown root gives an empty set.
func (g *Graph) PersonIDsInBranch(rootID string) IDSet {
	ids := make(IDSet)
	if !g.Has(rootID) {
		return ids
	}
	stack := []string{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := ids[id]; seen {
			continue
		}
		ids[id] = struct{}{}
		children := g.ChildrenIDs(id)
		for i := len(children) - 1; i >= 0; i-- {
			if _, seen := ids[children[i]]; !seen {
				stack = append(stack, children[i])
			}
		}
	}
	return ids
}

// BranchPersonIDs is PersonIDsInBranch plus the direct spouses of every member.
// Spouses' own other marriages are not followed.
func (g *Graph) BranchPersonIDs(rootID string) IDSet {
	members := g.PersonIDsInBranch(rootID)
	out := make(IDSet, len(members))
	for id := range members {
		out[id] = struct{}{}
		for _, sid := range g.SpouseIDs(id) {
			out[sid] = struct{}{}
		}
	}
	return out
}
