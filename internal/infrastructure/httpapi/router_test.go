package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/famitree/internal/application/handlers"
	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/services"
	"github.com/ersonp/famitree/internal/infrastructure/auth"
	"github.com/ersonp/famitree/internal/infrastructure/config"
	"github.com/ersonp/famitree/internal/infrastructure/metrics"
)

func init() {
	// Set Gin to test mode to reduce noise
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  *services.FamilyStore
	an     entities.Person
	binh   entities.Person
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	users := &config.UsersConfig{Users: map[string]config.UserEntry{
		"lan":  {Name: "Lan", Role: config.RoleAdmin},
		"minh": {Name: "Minh", Role: config.RoleViewer},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var n atomic.Int64
	// The default user seeds the fixture; requests act as whoever the header names.
	a := auth.New(users, "lan", false)
	store := services.NewFamilyStore(nil, a,
		services.WithLogger(logger),
		services.WithIDGenerator(func() string { return fmt.Sprintf("id-%d", n.Add(1)) }),
	)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	ctx := context.Background()
	an, err := store.AddPerson(ctx, entities.Person{Name: "An", Gender: entities.GenderMale, BirthDate: "1950-03-04"})
	require.NoError(t, err)
	binh, err := store.AddPerson(ctx, entities.Person{Name: "Binh", Gender: entities.GenderMale, BirthDate: "1975-09-10"})
	require.NoError(t, err)
	require.NoError(t, store.AddParentChild(ctx, an.ID, binh.ID, entities.SubtypePlain))

	router := NewRouter(Deps{
		Store:   store,
		Auth:    a,
		Metrics: metrics.New(),
		Logger:  logger,
		Now:     func() time.Time { return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC) },
	})
	return &testServer{router: router, store: store, an: an, binh: binh}
}

func (s *testServer) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRouter_Health(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "famitree_http_request_duration_seconds")
}

func TestRouter_Tree(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/api/tree", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[handlers.TreeResult](t, w)
	require.Len(t, res.Nodes, 1)
	assert.Equal(t, "An", res.Nodes[0].Person.Name)
	require.Len(t, res.Nodes[0].Children, 1)
	assert.Equal(t, "Binh", res.Nodes[0].Children[0].Person.Name)

	w = s.do(t, http.MethodGet, "/api/tree?q=nobody", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[handlers.TreeResult](t, w).Nodes)

	w = s.do(t, http.MethodGet, "/api/tree?root=missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ReadEndpoints(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/api/people/"+s.binh.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[handlers.PersonDetails](t, w)
	assert.Equal(t, 2, details.Level)
	require.Len(t, details.Parents, 1)
	assert.Equal(t, s.an.ID, details.Parents[0].Person.ID)

	w = s.do(t, http.MethodGet, "/api/people/"+s.binh.ID+"/ancestors?levels=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[handlers.AncestorsResult](t, w).Levels, 1)

	w = s.do(t, http.MethodGet, "/api/people/"+s.binh.ID+"/ancestors?levels=x", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/branches/"+s.an.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[handlers.BranchResult](t, w).Members, 2)

	w = s.do(t, http.MethodGet, "/api/summary", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[services.Summary](t, w).People)

	w = s.do(t, http.MethodGet, "/api/reminders?limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rem := decode[handlers.RemindersResult](t, w)
	require.Len(t, rem.Birthdays, 1)
	assert.Equal(t, "An", rem.Birthdays[0].Person.Name)

	w = s.do(t, http.MethodGet, "/api/db", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	db := decode[entities.FamilyTree](t, w)
	assert.Len(t, db.People, 2)
	assert.Len(t, db.Relationships, 1)

	w = s.do(t, http.MethodGet, "/api/people", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]entities.Person](t, w), 2)
}

func TestRouter_WriteRequiresAdmin(t *testing.T) {
	s := setupTestServer(t)
	body := map[string]any{"name": "Chi"}

	tests := []struct {
		name   string
		user   string
		status int
	}{
		{name: "anonymous", user: "", status: http.StatusForbidden},
		{name: "viewer", user: "minh", status: http.StatusForbidden},
		{name: "unknown", user: "ghost", status: http.StatusUnauthorized},
		{name: "admin", user: "lan", status: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/people", tt.user, body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
	assert.Len(t, s.store.Snapshot().People, 3)
}

func TestRouter_PersonLifecycle(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodPost, "/api/people", "lan", map[string]any{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/people", "lan", map[string]any{"name": "Chi", "gender": "female"})
	require.Equal(t, http.StatusCreated, w.Code)
	chi := decode[entities.Person](t, w)

	w = s.do(t, http.MethodPatch, "/api/people/"+chi.ID, "lan", map[string]any{"notes": "Hai Phong"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hai Phong", decode[entities.Person](t, w).Notes)

	w = s.do(t, http.MethodPost, "/api/relationships", "lan", map[string]any{
		"kind": "spouse", "personId": s.binh.ID, "relatedId": chi.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	rel := decode[entities.Relationship](t, w)
	assert.Equal(t, entities.RelationSpouse, rel.Type)

	w = s.do(t, http.MethodPost, "/api/relationships", "lan", map[string]any{
		"kind": "cousin", "personId": s.binh.ID, "relatedId": chi.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/relationships/"+rel.ID, "lan", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, "/api/relationships/"+rel.ID, "lan", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/people/"+chi.ID, "lan", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/people/"+chi.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_AddParent(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodPost, "/api/people", "lan", map[string]any{"name": "Dung"})
	require.Equal(t, http.StatusCreated, w.Code)
	dung := decode[entities.Person](t, w)

	w = s.do(t, http.MethodPost, "/api/relationships", "lan", map[string]any{
		"kind": "parent", "personId": s.binh.ID, "relatedId": dung.ID, "subtype": "adopt",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, entities.RelationParentChildAdopt, decode[entities.Relationship](t, w).Type)
	assert.Equal(t, []string{s.binh.ID}, s.store.ParentIDs(dung.ID))

	w = s.do(t, http.MethodPost, "/api/relationships", "lan", map[string]any{
		"kind": "parent", "personId": dung.ID, "relatedId": dung.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
