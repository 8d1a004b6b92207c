package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/famitree/internal/domain/entities"
)

func TestRelationshipHandler_HandleAddParent(t *testing.T) {
	s, f := adminStore(t)
	h := NewRelationshipHandler(s)
	ctx := context.Background()

	tests := []struct {
		name     string
		parentID string
		childID  string
		subtype  string
		wantType entities.RelationType
		wantErr  error
	}{
		{name: "adoptive", parentID: f.grandpa.ID, childID: f.mother.ID, subtype: "adopt", wantType: entities.RelationParentChildAdopt},
		{name: "in-law by full type", parentID: f.grandma.ID, childID: f.mother.ID, subtype: "parent-child-in-law", wantType: entities.RelationParentChildInLaw},
		{name: "unknown subtype", parentID: f.grandpa.ID, childID: f.child.ID, subtype: "step", wantErr: entities.ErrValidation},
		{name: "unknown parent", parentID: "missing", childID: f.child.ID, wantErr: ErrPersonNotFound},
		{name: "self edge", parentID: f.child.ID, childID: f.child.ID, wantErr: entities.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, err := h.HandleAddParent(ctx, tt.parentID, tt.childID, tt.subtype)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, rel)
			assert.Equal(t, tt.wantType, rel.Type)
			assert.Equal(t, tt.parentID, rel.PersonID)
			assert.Equal(t, tt.childID, rel.RelatedID)
		})
	}
}

func TestRelationshipHandler_HandleAddSpouse(t *testing.T) {
	s, f := adminStore(t)
	h := NewRelationshipHandler(s)
	ctx := context.Background()

	// Existing edge, reversed order: no new edge, the old one is returned.
	before := len(s.Snapshot().Relationships)
	rel, err := h.HandleAddSpouse(ctx, f.mother.ID, f.father.ID)
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.Equal(t, f.father.ID, rel.PersonID)
	assert.Len(t, s.Snapshot().Relationships, before)
}

func TestRelationshipHandler_ReadOnlyUser(t *testing.T) {
	admin, f := adminStore(t)
	s := viewerStore(t, admin.Snapshot())
	h := NewRelationshipHandler(s)
	ctx := context.Background()

	rel, err := h.HandleAddSpouse(ctx, f.child.ID, f.grandpa.ID)
	require.NoError(t, err)
	assert.Nil(t, rel)

	list, err := h.HandleList(f.child.ID)
	require.NoError(t, err)
	require.NoError(t, h.HandleRemove(ctx, list.Parents[0].EdgeID))
	assert.Len(t, s.ParentIDs(f.child.ID), 2, "viewer cannot remove edges")
}

func TestRelationshipHandler_HandleRemove(t *testing.T) {
	s, f := adminStore(t)
	h := NewRelationshipHandler(s)
	ctx := context.Background()

	list, err := h.HandleList(f.child.ID)
	require.NoError(t, err)
	require.Len(t, list.Parents, 2)

	require.NoError(t, h.HandleRemove(ctx, list.Parents[0].EdgeID))
	assert.ErrorIs(t, h.HandleRemove(ctx, list.Parents[0].EdgeID), ErrRelationshipNotFound)

	list, err = h.HandleList(f.child.ID)
	require.NoError(t, err)
	assert.Len(t, list.Parents, 1)

	_, err = h.HandleList("missing")
	assert.ErrorIs(t, err, ErrPersonNotFound)
}
