package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/mocks"
	"github.com/ersonp/famitree/internal/domain/ports"
	"github.com/ersonp/famitree/internal/domain/services"
)

func newTestStore(t *testing.T, persistence ports.Persistence, auth ports.Authorizer, opts ...services.StoreOption) *services.FamilyStore {
	t.Helper()
	var n atomic.Int64
	opts = append([]services.StoreOption{
		services.WithIDGenerator(func() string { return fmt.Sprintf("id-%d", n.Add(1)) }),
		services.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	s := services.NewFamilyStore(persistence, auth, opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Close(ctx)
	})
	return s
}

// family is a three-generation fixture.
type family struct {
	grandpa, grandma, father, mother, child entities.Person
}

func seedFamily(t *testing.T, s *services.FamilyStore) family {
	t.Helper()
	ctx := context.Background()
	add := func(p entities.Person) entities.Person {
		out, err := s.AddPerson(ctx, p)
		require.NoError(t, err)
		return out
	}

	f := family{
		grandpa: add(entities.Person{Name: "Nguyen Van Ong", Gender: entities.GenderMale, BirthDate: "1930-05-10", DeathDate: "2000-03-01"}),
		grandma: add(entities.Person{Name: "Tran Thi Ba", Gender: entities.GenderFemale, BirthDate: "1935"}),
		father:  add(entities.Person{Name: "Nguyen Van Bo", Gender: entities.GenderMale, BirthDate: "1960-07-20"}),
		mother:  add(entities.Person{Name: "Le Thi Me", Gender: entities.GenderFemale, BirthDate: "1962-02-14", MemberRole: entities.RoleDaughterInLaw}),
		child:   add(entities.Person{Name: "Nguyen Thi Con", Gender: entities.GenderFemale, BirthDate: "1990-12-01"}),
	}

	require.NoError(t, s.AddSpouse(ctx, f.grandpa.ID, f.grandma.ID))
	require.NoError(t, s.AddParentChild(ctx, f.grandpa.ID, f.father.ID, entities.SubtypePlain))
	require.NoError(t, s.AddParentChild(ctx, f.grandma.ID, f.father.ID, entities.SubtypePlain))
	require.NoError(t, s.AddSpouse(ctx, f.father.ID, f.mother.ID))
	require.NoError(t, s.AddParentChild(ctx, f.father.ID, f.child.ID, entities.SubtypePlain))
	require.NoError(t, s.AddParentChild(ctx, f.mother.ID, f.child.ID, entities.SubtypePlain))
	return f
}

func adminStore(t *testing.T) (*services.FamilyStore, family) {
	t.Helper()
	s := newTestStore(t, nil, mocks.Admin())
	return s, seedFamily(t, s)
}

// viewerStore loads tree into a store whose user may not edit.
func viewerStore(t *testing.T, tree entities.FamilyTree) *services.FamilyStore {
	t.Helper()
	data, err := entities.EncodeFamilyTree(tree)
	require.NoError(t, err)
	s := newTestStore(t, &mocks.Persistence{Data: data}, mocks.Viewer())
	require.NoError(t, s.Load(context.Background()))
	return s
}
