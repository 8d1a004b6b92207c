package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/services"
)

// RelationshipHandler handles relationship operations.
type RelationshipHandler struct {
	store *services.FamilyStore
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(store *services.FamilyStore) *RelationshipHandler {
	return &RelationshipHandler{store: store}
}

// RelationsResult lists every edge of one person.
type RelationsResult struct {
	Person   entities.Person          `json:"person"`
	Parents  []services.RelatedPerson `json:"parents"`
	Children []services.RelatedPerson `json:"children"`
	Spouses  []services.SpouseLink    `json:"spouses"`
}

// HandleAddParent links parentID as a parent of childID. subtype is plain,
// in-law or adopt (empty means plain). The edge is returned, or nil when
// nothing was created because the user may not edit the tree.
func (h *RelationshipHandler) HandleAddParent(ctx context.Context, parentID, childID, subtype string) (*entities.Relationship, error) {
	st, ok := entities.ParseSubtype(subtype)
	if !ok {
		return nil, entities.NewValidationError("subtype", "unknown parent-child subtype %q", subtype)
	}
	if err := h.requirePeople(parentID, childID); err != nil {
		return nil, err
	}
	if err := h.store.AddParentChild(ctx, parentID, childID, st); err != nil {
		return nil, err
	}
	return h.findEdge(st.RelationType(), parentID, childID), nil
}

// HandleAddSpouse links two people as spouses.
func (h *RelationshipHandler) HandleAddSpouse(ctx context.Context, personID, spouseID string) (*entities.Relationship, error) {
	if err := h.requirePeople(personID, spouseID); err != nil {
		return nil, err
	}
	if err := h.store.AddSpouse(ctx, personID, spouseID); err != nil {
		return nil, err
	}
	return h.findEdge(entities.RelationSpouse, personID, spouseID), nil
}

// HandleRemove removes a relationship by id.
func (h *RelationshipHandler) HandleRemove(ctx context.Context, id string) error {
	if _, ok := h.store.Graph().Relationship(id); !ok {
		return fmt.Errorf("%w: %s", ErrRelationshipNotFound, id)
	}
	return h.store.RemoveRelationship(ctx, id)
}

// HandleList returns the parents, children and spouses of a person.
func (h *RelationshipHandler) HandleList(personID string) (*RelationsResult, error) {
	g := h.store.Graph()
	p, ok := g.Person(personID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, personID)
	}
	return &RelationsResult{
		Person:   p,
		Parents:  g.ParentRelationships(personID),
		Children: g.ChildRelationships(personID),
		Spouses:  g.SpouseRelationships(personID),
	}, nil
}

func (h *RelationshipHandler) requirePeople(ids ...string) error {
	g := h.store.Graph()
	for _, id := range ids {
		if !g.Has(id) {
			return fmt.Errorf("%w: %s", ErrPersonNotFound, id)
		}
	}
	return nil
}

// findEdge returns the existing edge of relType between a and b, if any.
func (h *RelationshipHandler) findEdge(relType entities.RelationType, a, b string) *entities.Relationship {
	for _, r := range h.store.Graph().Relationships() {
		if r.Type == relType && r.Connects(a, b) {
			return &r
		}
	}
	return nil
}
