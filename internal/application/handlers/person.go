package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/services"
)

// PersonHandler handles person operations.
type PersonHandler struct {
	store *services.FamilyStore
}

// NewPersonHandler creates a new PersonHandler.
func NewPersonHandler(store *services.FamilyStore) *PersonHandler {
	return &PersonHandler{store: store}
}

// PersonDetails is a person with every directly related person.
type PersonDetails struct {
	Person   entities.Person          `json:"person"`
	Level    int                      `json:"level"`
	Age      *int                     `json:"age,omitempty"`
	Parents  []services.RelatedPerson `json:"parents"`
	Children []services.RelatedPerson `json:"children"`
	Spouses  []services.SpouseLink    `json:"spouses"`
}

// HandleAdd creates a person. The returned person is empty when the current
// user may not edit the tree.
func (h *PersonHandler) HandleAdd(ctx context.Context, fields entities.Person) (entities.Person, error) {
	return h.store.AddPerson(ctx, fields)
}

// HandleUpdate applies a partial update and returns the stored person.
func (h *PersonHandler) HandleUpdate(ctx context.Context, id string, upd entities.PersonUpdate) (entities.Person, error) {
	if _, ok := h.store.Person(id); !ok {
		return entities.Person{}, fmt.Errorf("%w: %s", ErrPersonNotFound, id)
	}
	if err := h.store.UpdatePerson(ctx, id, upd); err != nil {
		return entities.Person{}, err
	}
	p, _ := h.store.Person(id)
	return p, nil
}

// HandleDelete removes a person and every edge touching them.
func (h *PersonHandler) HandleDelete(ctx context.Context, id string) error {
	if _, ok := h.store.Person(id); !ok {
		return fmt.Errorf("%w: %s", ErrPersonNotFound, id)
	}
	return h.store.DeletePerson(ctx, id)
}

// HandleShow returns a person with parents, children and spouses. Age is
// computed against now when the dates allow it.
func (h *PersonHandler) HandleShow(id string, now time.Time) (*PersonDetails, error) {
	g := h.store.Graph()
	p, ok := g.Person(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, id)
	}

	d := &PersonDetails{
		Person:   p,
		Level:    g.PersonLevel(id, nil),
		Parents:  g.ParentRelationships(id),
		Children: g.ChildRelationships(id),
		Spouses:  g.SpouseRelationships(id),
	}
	if age, ok := p.BirthDate.Age(p.DeathDate, now); ok {
		d.Age = &age
	}
	return d, nil
}

// HandleList returns every person in insertion order.
func (h *PersonHandler) HandleList() []entities.Person {
	return h.store.Graph().People()
}
