package services

import "github.com/ersonp/famitree/internal/domain/entities"

// RelatedPerson is a parent or child reached through one edge.
type RelatedPerson struct {
	EdgeID  string                      `json:"edge_id"`
	Person  entities.Person             `json:"person"`
	Subtype entities.ParentChildSubtype `json:"subtype"`
}

// SpouseLink is one spouse edge with its 1-based display index.
type SpouseLink struct {
	EdgeID string          `json:"edge_id"`
	Person entities.Person `json:"person"`
	Index  int             `json:"index"`
}

// Graph is a read-only view over one FamilyTree snapshot. Adjacency lists keep
// edge-list order. A Graph is never updated; the store hands out a new one
// after every mutation.
type Graph struct {
	tree       entities.FamilyTree
	byID       map[string]int
	childRels  map[string][]entities.Relationship
	parentRels map[string][]entities.Relationship
	spouseRels map[string][]entities.Relationship
	isChild    map[string]struct{}
}

// NewGraph indexes a snapshot.
func NewGraph(tree entities.FamilyTree) *Graph {
	g := &Graph{
		tree:       tree,
		byID:       make(map[string]int, len(tree.People)),
		childRels:  make(map[string][]entities.Relationship),
		parentRels: make(map[string][]entities.Relationship),
		spouseRels: make(map[string][]entities.Relationship),
		isChild:    make(map[string]struct{}),
	}
	for i, p := range tree.People {
		if _, dup := g.byID[p.ID]; !dup {
			g.byID[p.ID] = i
		}
	}
	for _, r := range tree.Relationships {
		switch {
		case r.Type.IsParentChild():
			g.childRels[r.PersonID] = append(g.childRels[r.PersonID], r)
			g.parentRels[r.RelatedID] = append(g.parentRels[r.RelatedID], r)
			g.isChild[r.RelatedID] = struct{}{}
		case r.Type == entities.RelationSpouse:
			g.spouseRels[r.PersonID] = append(g.spouseRels[r.PersonID], r)
			if r.RelatedID != r.PersonID {
				g.spouseRels[r.RelatedID] = append(g.spouseRels[r.RelatedID], r)
			}
		}
	}
	return g
}

// Version returns the snapshot version the graph was built from.
func (g *Graph) Version() uint64 {
	return g.tree.Version
}

// Snapshot returns the underlying state. Callers must not modify the slices.
func (g *Graph) Snapshot() entities.FamilyTree {
	return g.tree
}

// People returns all people in insertion order.
func (g *Graph) People() []entities.Person {
	return g.tree.People
}

// Relationships returns all edges in insertion order.
func (g *Graph) Relationships() []entities.Relationship {
	return g.tree.Relationships
}

// Person looks up a person by id.
func (g *Graph) Person(id string) (entities.Person, bool) {
	i, ok := g.byID[id]
	if !ok {
		return entities.Person{}, false
	}
	return g.tree.People[i], true
}

// Has reports whether id resolves to a person.
func (g *Graph) Has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// ChildrenIDs returns the targets of every parent-child edge leaving parentID.
func (g *Graph) ChildrenIDs(parentID string) []string {
	rels := g.childRels[parentID]
	ids := make([]string, 0, len(rels))
	for _, r := range rels {
		ids = append(ids, r.RelatedID)
	}
	return ids
}

// ParentIDs returns the sources of every parent-child edge reaching childID.
func (g *Graph) ParentIDs(childID string) []string {
	rels := g.parentRels[childID]
	ids := make([]string, 0, len(rels))
	for _, r := range rels {
		ids = append(ids, r.PersonID)
	}
	return ids
}

// SpouseIDs returns every spouse partner of personID in edge order.
// The position in the slice plus one is the spouse's display index.
func (g *Graph) SpouseIDs(personID string) []string {
	rels := g.spouseRels[personID]
	ids := make([]string, 0, len(rels))
	for _, r := range rels {
		ids = append(ids, r.Other(personID))
	}
	return ids
}

// ParentRelationships lists the parent edges of childID. Edges whose parent no
// longer resolves are skipped.
func (g *Graph) ParentRelationships(childID string) []RelatedPerson {
	return g.related(g.parentRels[childID], func(r entities.Relationship) string { return r.PersonID })
}

// ChildRelationships lists the child edges of parentID.
func (g *Graph) ChildRelationships(parentID string) []RelatedPerson {
	return g.related(g.childRels[parentID], func(r entities.Relationship) string { return r.RelatedID })
}

func (g *Graph) related(rels []entities.Relationship, end func(entities.Relationship) string) []RelatedPerson {
	out := make([]RelatedPerson, 0, len(rels))
	for _, r := range rels {
		p, ok := g.Person(end(r))
		if !ok {
			continue
		}
		out = append(out, RelatedPerson{EdgeID: r.ID, Person: p, Subtype: r.Type.Subtype()})
	}
	return out
}

// SpouseRelationships lists the spouse edges of personID, numbered from 1 in
// encounter order.
func (g *Graph) SpouseRelationships(personID string) []SpouseLink {
	rels := g.spouseRels[personID]
	out := make([]SpouseLink, 0, len(rels))
	for _, r := range rels {
		p, ok := g.Person(r.Other(personID))
		if !ok {
			continue
		}
		out = append(out, SpouseLink{EdgeID: r.ID, Person: p, Index: len(out) + 1})
	}
	return out
}

// Spouses resolves SpouseIDs to people.
func (g *Graph) Spouses(personID string) []entities.Person {
	ids := g.SpouseIDs(personID)
	out := make([]entities.Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := g.Person(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Roots returns the people who are not the child of any parent-child edge.
func (g *Graph) Roots() []entities.Person {
	var roots []entities.Person
	for _, p := range g.tree.People {
		if _, child := g.isChild[p.ID]; !child {
			roots = append(roots, p)
		}
	}
	return roots
}

// Relationship looks up an edge by id.
func (g *Graph) Relationship(id string) (entities.Relationship, bool) {
	for _, r := range g.tree.Relationships {
		if r.ID == id {
			return r, true
		}
	}
	return entities.Relationship{}, false
}
