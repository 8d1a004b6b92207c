package services

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/ersonp/famitree/internal/domain/entities"
)

func person(id, name string) entities.Person {
	return entities.Person{ID: id, Name: name}
}

func male(id, name string) entities.Person {
	return entities.Person{ID: id, Name: name, Gender: entities.GenderMale}
}

func parentChild(id, parentID, childID string) entities.Relationship {
	return entities.Relationship{ID: id, Type: entities.RelationParentChild, PersonID: parentID, RelatedID: childID}
}

func spouse(id, a, b string) entities.Relationship {
	return entities.Relationship{ID: id, Type: entities.RelationSpouse, PersonID: a, RelatedID: b}
}

func newTestGraph(people []entities.Person, rels ...entities.Relationship) *Graph {
	return NewGraph(entities.FamilyTree{People: people, Relationships: rels})
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("id-%d", n.Add(1))
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func nodeNames(nodes []*entities.TreeNode) []string {
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Person.Name)
	}
	return names
}

func idSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

type staticSource struct {
	g *Graph
}

func (s staticSource) Graph() *Graph { return s.g }
