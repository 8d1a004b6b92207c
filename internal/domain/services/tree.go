package services

import "github.com/ersonp/famitree/internal/domain/entities"

// seenSet guards tree construction against cycles and shared descendants.
type seenSet map[string]struct{}

// BuildTree builds the full forest. Roots are the people who are never the
// child of a parent-child edge. One seen set is shared by the whole forest, so
// a person reached a second time becomes a bare leaf.
//
// When every person is somebody's child (cyclic or malformed data) each person
// is returned as an independent root without children.
func (g *Graph) BuildTree() []*entities.TreeNode {
	people := g.People()
	roots := g.Roots()
	if len(roots) == 0 {
		nodes := make([]*entities.TreeNode, 0, len(people))
		for _, p := range people {
			nodes = append(nodes, entities.NewTreeNode(p, g.Spouses(p.ID), nil))
		}
		return nodes
	}

	seen := make(seenSet)
	nodes := make([]*entities.TreeNode, 0, len(roots))
	for _, r := range roots {
		if n := g.buildNode(r.ID, seen); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// BuildTreeRootedAt builds a single tree starting at personID whether or not
// that person is a root. Returns an empty forest for an unknown id.
func (g *Graph) BuildTreeRootedAt(personID string) []*entities.TreeNode {
	n := g.buildNode(personID, make(seenSet))
	if n == nil {
		return []*entities.TreeNode{}
	}
	return []*entities.TreeNode{n}
}

// BuildTreeMaleRootsOnly keeps the male roots of BuildTree and rebuilds each
// with its own seen set. A descendant shared by two male roots is expanded
// under both.
func (g *Graph) BuildTreeMaleRootsOnly() []*entities.TreeNode {
	nodes := make([]*entities.TreeNode, 0)
	for _, root := range g.BuildTree() {
		if root.Person.Gender != entities.GenderMale {
			continue
		}
		if n := g.buildNode(root.Person.ID, make(seenSet)); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// buildNode returns nil when personID does not resolve.
func (g *Graph) buildNode(personID string, seen seenSet) *entities.TreeNode {
	person, ok := g.Person(personID)
	if !ok {
		return nil
	}
	if _, dup := seen[personID]; dup {
		return entities.NewTreeNode(person, nil, nil)
	}
	seen[personID] = struct{}{}

	childIDs := g.ChildrenIDs(personID)
	children := make([]*entities.TreeNode, 0, len(childIDs))
	for _, id := range childIDs {
		if n := g.buildNode(id, seen); n != nil {
			children = append(children, n)
		}
	}
	return entities.NewTreeNode(person, g.Spouses(personID), children)
}

// AncestorLevels walks up from personID one generation per level, at most
// maxLevels levels. Each level holds the distinct parents of the previous one.
// The result is ordered from the oldest generation down to the parents.
func (g *Graph) AncestorLevels(personID string, maxLevels int) [][]entities.Person {
	levels := make([][]entities.Person, 0)
	if maxLevels <= 0 || !g.Has(personID) {
		return levels
	}

	current := []string{personID}
	for len(levels) < maxLevels {
		seen := make(map[string]struct{})
		var level []entities.Person
		for _, id := range current {
			for _, pid := range g.ParentIDs(id) {
				if _, dup := seen[pid]; dup {
					continue
				}
				seen[pid] = struct{}{}
				if p, ok := g.Person(pid); ok {
					level = append(level, p)
				}
			}
		}
		if len(level) == 0 {
			break
		}
		levels = append(levels, level)

		current = current[:0:0]
		for _, p := range level {
			current = append(current, p.ID)
		}
	}

	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}
	return levels
}
