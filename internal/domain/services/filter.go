package services

import (
	"strings"

	"github.com/ersonp/famitree/internal/domain/entities"
)

// FilterTreeByQuery prunes a forest to the nodes whose name or any spouse's
// name contains query (case-insensitive), plus their ancestors in the forest.
// Surviving nodes keep all spouses and only their surviving children.
// A blank query returns nodes unchanged.
func FilterTreeByQuery(nodes []*entities.TreeNode, query string) []*entities.TreeNode {
	q := entities.NormalizeName(query)
	if q == "" {
		return nodes
	}
	out := make([]*entities.TreeNode, 0, len(nodes))
	for _, n := range nodes {
		if kept := filterNode(n, q); kept != nil {
			out = append(out, kept)
		}
	}
	return out
}

func filterNode(n *entities.TreeNode, q string) *entities.TreeNode {
	children := make([]*entities.TreeNode, 0, len(n.Children))
	for _, c := range n.Children {
		if kept := filterNode(c, q); kept != nil {
			children = append(children, kept)
		}
	}
	if len(children) == 0 && !nodeMatches(n, q) {
		return nil
	}
	copied := *n
	copied.Children = children
	return &copied
}

func nodeMatches(n *entities.TreeNode, q string) bool {
	if nameContains(n.Person.Name, q) {
		return true
	}
	for _, s := range n.Spouses {
		if nameContains(s.Name, q) {
			return true
		}
	}
	return false
}

func nameContains(name, normalizedQuery string) bool {
	return strings.Contains(entities.NormalizeName(name), normalizedQuery)
}
