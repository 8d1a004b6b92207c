package services

import "github.com/ersonp/famitree/internal/domain/entities"

// MainPersonIDs collects the id of every node in a built forest, ignoring
// spouses. Renderers use it to draw a spouse who already has a card elsewhere
// as a cross-reference.
func MainPersonIDs(nodes []*entities.TreeNode) map[string]struct{} {
	ids := make(map[string]struct{})
	var collect func([]*entities.TreeNode)
	collect = func(nodes []*entities.TreeNode) {
		for _, n := range nodes {
			ids[n.Person.ID] = struct{}{}
			collect(n.Children)
		}
	}
	collect(nodes)
	return ids
}

// PersonLevelFromNodes numbers the rendered structure: roots are level 1 and
// each child is one deeper than its node. A person drawn more than once keeps
// the shallowest level.
func PersonLevelFromNodes(nodes []*entities.TreeNode) map[string]int {
	levels := make(map[string]int)
	var walk func([]*entities.TreeNode, int)
	walk = func(nodes []*entities.TreeNode, depth int) {
		for _, n := range nodes {
			if cur, ok := levels[n.Person.ID]; !ok || depth < cur {
				levels[n.Person.ID] = depth
			}
			walk(n.Children, depth+1)
		}
	}
	walk(nodes, 1)
	return levels
}

// CountNodes returns the number of nodes in a forest, spouses excluded.
func CountNodes(nodes []*entities.TreeNode) int {
	total := 0
	for _, n := range nodes {
		total += 1 + CountNodes(n.Children)
	}
	return total
}
