package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/ports"
)

// DefaultFlushTimeout bounds one background save.
const DefaultFlushTimeout = 30 * time.Second

// StoreOption configures a FamilyStore.
type StoreOption func(*FamilyStore)

// WithLogger sets the logger used for denied mutations and persistence failures.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *FamilyStore) { s.logger = logger }
}

// WithIDGenerator replaces uuid.NewString for new person and edge ids.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *FamilyStore) { s.newID = fn }
}

// WithMetrics reports mutation and persistence counters.
func WithMetrics(m ports.StoreMetrics) StoreOption {
	return func(s *FamilyStore) { s.metrics = m }
}

// WithAuditLog records every effective mutation.
func WithAuditLog(a ports.AuditLog) StoreOption {
	return func(s *FamilyStore) { s.audit = a }
}

// WithFlushTimeout bounds each background save.
func WithFlushTimeout(d time.Duration) StoreOption {
	return func(s *FamilyStore) { s.flushTimeout = d }
}

type listenerEntry struct {
	id uint64
	fn func()
}

// change describes an applied mutation for the audit log.
type change struct {
	subjectID string
	details   map[string]any
}

// FamilyStore owns the people and relationship lists. Every mutation replaces
// the snapshot instead of editing it, saves in the background and notifies
// subscribers. Only privileged users can mutate; anyone else gets a silent
// no-op.
type FamilyStore struct {
	persistence  ports.Persistence
	auth         ports.Authorizer
	audit        ports.AuditLog
	metrics      ports.StoreMetrics
	logger       *slog.Logger
	newID        func() string
	flushTimeout time.Duration

	mu    sync.RWMutex
	state entities.FamilyTree
	graph *Graph

	listenersMu    sync.Mutex
	listeners      []listenerEntry
	nextListenerID uint64
	emitting       bool
	emitPending    bool

	saveMu       sync.Mutex
	savedVersion uint64

	flushCh   chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewFamilyStore creates an empty store and starts its background flusher.
// persistence may be nil for a purely in-memory store. Call Close to stop the
// flusher and write the last state.
func NewFamilyStore(persistence ports.Persistence, auth ports.Authorizer, opts ...StoreOption) *FamilyStore {
	s := &FamilyStore{
		persistence:  persistence,
		auth:         auth,
		logger:       slog.Default(),
		newID:        uuid.NewString,
		flushTimeout: DefaultFlushTimeout,
		flushCh:      make(chan struct{}, 1),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.graph = NewGraph(s.state)
	go s.flushLoop()
	return s
}

// Load hydrates the store from persistence. Nothing saved yet leaves the tree
// empty. Load does not require a privileged user and does not trigger a save.
func (s *FamilyStore) Load(ctx context.Context) error {
	if s.persistence == nil {
		return nil
	}
	data, err := s.persistence.LoadInitial(ctx)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading family tree: %w", err)
	}
	tree, err := entities.DecodeFamilyTree(data)
	if err != nil {
		return err
	}
	s.replace(tree)
	return nil
}

// Reload re-reads persistence after an external writer replaced it. A blob
// carrying the version already in memory is not adopted, which filters out the
// echo of our own saves. When such a blob differs from memory the external
// edit is dropped with a warning.
func (s *FamilyStore) Reload(ctx context.Context) error {
	if s.persistence == nil {
		return nil
	}
	data, err := s.persistence.LoadInitial(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("reloading family tree: %w", err)
	}
	tree, err := entities.DecodeFamilyTree(data)
	if err != nil {
		return err
	}
	if cur := s.Snapshot(); tree.Version == cur.Version {
		if !sameContent(tree, cur) {
			s.logger.Warn("ignoring external change with the version already in memory",
				"version", tree.Version, "people", len(tree.People), "relationships", len(tree.Relationships))
		}
		return nil
	}
	s.replace(tree)
	return nil
}

func sameContent(a, b entities.FamilyTree) bool {
	ea, err := entities.EncodeFamilyTree(a)
	if err != nil {
		return false
	}
	eb, err := entities.EncodeFamilyTree(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}

func (s *FamilyStore) replace(tree entities.FamilyTree) {
	s.saveMu.Lock()
	s.mu.Lock()
	s.state = tree
	s.graph = NewGraph(tree)
	s.savedVersion = tree.Version
	s.mu.Unlock()
	s.saveMu.Unlock()
	s.emit()
}

// Snapshot returns the current state. The slices are shared and must be
// treated as read-only.
func (s *FamilyStore) Snapshot() entities.FamilyTree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Graph returns the query view of the current state.
func (s *FamilyStore) Graph() *Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// Subscribe registers a listener called after every change, in registration
// order. The returned function unsubscribes it.
func (s *FamilyStore) Subscribe(listener func()) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.nextListenerID++
	id := s.nextListenerID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: listener})
	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(l listenerEntry) bool { return l.id == id })
	}
}

// emit fans out to listeners. A change made while listeners are running (for
// instance by a listener itself) is queued as one more round instead of
// nesting.
func (s *FamilyStore) emit() {
	s.listenersMu.Lock()
	if s.emitting {
		s.emitPending = true
		s.listenersMu.Unlock()
		return
	}
	s.emitting = true
	for {
		s.emitPending = false
		listeners := slices.Clone(s.listeners)
		s.listenersMu.Unlock()

		for _, l := range listeners {
			s.callListener(l.fn)
		}

		s.listenersMu.Lock()
		if !s.emitPending {
			s.emitting = false
			s.listenersMu.Unlock()
			return
		}
	}
}

func (s *FamilyStore) callListener(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("store listener panicked", "panic", r)
		}
	}()
	fn()
}

// authorize reports whether the current user may mutate.
func (s *FamilyStore) authorize(ctx context.Context, action string) (ports.User, bool) {
	if s.auth != nil {
		if u, ok := s.auth.CurrentUser(ctx); ok && u.Privileged {
			return u, true
		}
	}
	s.logger.Debug("mutation ignored for non-privileged caller", "action", action)
	if s.metrics != nil {
		s.metrics.MutationDenied(action)
	}
	return ports.User{}, false
}

// update applies fn to the current state. fn returns a nil change for a no-op.
func (s *FamilyStore) update(
	ctx context.Context,
	action string,
	fn func(cur entities.FamilyTree) (entities.FamilyTree, *change, error),
) error {
	user, ok := s.authorize(ctx, action)
	if !ok {
		return nil
	}

	s.mu.Lock()
	next, ch, err := fn(s.state)
	if err != nil || ch == nil {
		s.mu.Unlock()
		return err
	}
	next.Version = s.state.Version + 1
	s.state = next
	s.graph = NewGraph(next)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.MutationApplied(action)
	}
	s.recordAudit(ctx, user, action, ch)
	s.requestFlush()
	s.emit()
	return nil
}

func (s *FamilyStore) recordAudit(ctx context.Context, user ports.User, action string, ch *change) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogAction(ctx, action, user.ID, ch.subjectID, ch.details); err != nil {
		s.logger.Warn("writing audit log failed", "action", action, "subject", ch.subjectID, "error", err)
	}
}

// AddPerson stores a new person under a fresh id. The name is trimmed and
// must not be empty.
func (s *FamilyStore) AddPerson(ctx context.Context, fields entities.Person) (entities.Person, error) {
	var added entities.Person
	err := s.update(ctx, entities.ActionAddPerson, func(cur entities.FamilyTree) (entities.FamilyTree, *change, error) {
		name := strings.TrimSpace(fields.Name)
		if name == "" {
			return cur, nil, entities.NewValidationError("name", "person name is required")
		}
		if err := fields.Validate(); err != nil {
			return cur, nil, err
		}
		p := fields
		p.Name = name
		p.ID = s.newID()

		cur.People = append(slices.Clip(cur.People), p)
		added = p
		return cur, &change{subjectID: p.ID, details: map[string]any{"name": p.Name}}, nil
	})
	return added, err
}

// UpdatePerson applies a partial update. A blank name becomes the placeholder.
// Unknown ids are ignored.
func (s *FamilyStore) UpdatePerson(ctx context.Context, id string, upd entities.PersonUpdate) error {
	return s.update(ctx, entities.ActionUpdatePerson, func(cur entities.FamilyTree) (entities.FamilyTree, *change, error) {
		i := slices.IndexFunc(cur.People, func(p entities.Person) bool { return p.ID == id })
		if i < 0 {
			return cur, nil, nil
		}
		next := upd.Apply(cur.People[i])
		next.ID = id
		next.Name = entities.SafeName(next.Name)
		if err := next.Validate(); err != nil {
			return cur, nil, err
		}

		people := slices.Clone(cur.People)
		people[i] = next
		cur.People = people
		return cur, &change{subjectID: id, details: map[string]any{"name": next.Name}}, nil
	})
}

// DeletePerson removes a person and every relationship touching them.
func (s *FamilyStore) DeletePerson(ctx context.Context, id string) error {
	return s.update(ctx, entities.ActionDeletePerson, func(cur entities.FamilyTree) (entities.FamilyTree, *change, error) {
		if !slices.ContainsFunc(cur.People, func(p entities.Person) bool { return p.ID == id }) {
			return cur, nil, nil
		}
		people := slices.DeleteFunc(slices.Clone(cur.People), func(p entities.Person) bool { return p.ID == id })
		before := len(cur.Relationships)
		rels := slices.DeleteFunc(slices.Clone(cur.Relationships), func(r entities.Relationship) bool { return r.Touches(id) })

		cur.People = people
		cur.Relationships = rels
		return cur, &change{subjectID: id, details: map[string]any{"edges_removed": before - len(rels)}}, nil
	})
}

// AddParentChild links parentID to childID with the given subtype. Self edges
// are rejected. An edge of the same subtype already joining the pair in either
// direction, or an unknown person, makes this a no-op.
func (s *FamilyStore) AddParentChild(ctx context.Context, parentID, childID string, subtype entities.ParentChildSubtype) error {
	relType := subtype.RelationType()
	if relType == "" {
		return entities.NewValidationError("subtype", "unknown parent-child subtype %q", subtype)
	}
	return s.addEdge(ctx, relType, parentID, childID)
}

// AddSpouse links two people as spouses. Self edges are rejected and an
// existing spouse edge between them in either order makes this a no-op.
func (s *FamilyStore) AddSpouse(ctx context.Context, personID, spouseID string) error {
	return s.addEdge(ctx, entities.RelationSpouse, personID, spouseID)
}

func (s *FamilyStore) addEdge(ctx context.Context, relType entities.RelationType, personID, relatedID string) error {
	return s.update(ctx, entities.ActionAddRelationship, func(cur entities.FamilyTree) (entities.FamilyTree, *change, error) {
		if personID == relatedID {
			return cur, nil, entities.NewValidationError("relatedId", "a person cannot be related to themselves")
		}
		g := s.graph
		if !g.Has(personID) || !g.Has(relatedID) {
			return cur, nil, nil
		}
		if slices.ContainsFunc(cur.Relationships, func(r entities.Relationship) bool {
			return r.Type == relType && r.Connects(personID, relatedID)
		}) {
			return cur, nil, nil
		}

		rel := entities.Relationship{
			ID:        s.newID(),
			Type:      relType,
			PersonID:  personID,
			RelatedID: relatedID,
		}
		cur.Relationships = append(slices.Clip(cur.Relationships), rel)
		return cur, &change{subjectID: rel.ID, details: map[string]any{
			"type":       string(rel.Type),
			"person_id":  personID,
			"related_id": relatedID,
		}}, nil
	})
}

// RemoveRelationship deletes an edge by id. Unknown ids are ignored.
func (s *FamilyStore) RemoveRelationship(ctx context.Context, id string) error {
	return s.update(ctx, entities.ActionRemoveRelationship, func(cur entities.FamilyTree) (entities.FamilyTree, *change, error) {
		i := slices.IndexFunc(cur.Relationships, func(r entities.Relationship) bool { return r.ID == id })
		if i < 0 {
			return cur, nil, nil
		}
		removed := cur.Relationships[i]
		cur.Relationships = slices.Delete(slices.Clone(cur.Relationships), i, i+1)
		return cur, &change{subjectID: id, details: map[string]any{"type": string(removed.Type)}}, nil
	})
}

// ImportPerson inserts or fully replaces a person by id, for restoring
// backups. Relationships are untouched. A blank name becomes the placeholder.
func (s *FamilyStore) ImportPerson(ctx context.Context, person entities.Person) error {
	return s.update(ctx, entities.ActionImportPerson, func(cur entities.FamilyTree) (entities.FamilyTree, *change, error) {
		if strings.TrimSpace(person.ID) == "" {
			return cur, nil, entities.NewValidationError("id", "imported person needs an id")
		}
		if err := person.Validate(); err != nil {
			return cur, nil, err
		}
		p := person
		p.Name = entities.SafeName(p.Name)

		i := slices.IndexFunc(cur.People, func(x entities.Person) bool { return x.ID == p.ID })
		if i >= 0 {
			people := slices.Clone(cur.People)
			people[i] = p
			cur.People = people
		} else {
			cur.People = append(slices.Clip(cur.People), p)
		}
		return cur, &change{subjectID: p.ID, details: map[string]any{"name": p.Name, "replaced": i >= 0}}, nil
	})
}

// Person looks up a person in the current state.
func (s *FamilyStore) Person(id string) (entities.Person, bool) {
	return s.Graph().Person(id)
}

// ChildrenIDs returns the children of parentID in the current state.
func (s *FamilyStore) ChildrenIDs(parentID string) []string {
	return s.Graph().ChildrenIDs(parentID)
}

// ParentIDs returns the parents of childID in the current state.
func (s *FamilyStore) ParentIDs(childID string) []string {
	return s.Graph().ParentIDs(childID)
}

// SpouseIDs returns the spouses of personID in the current state.
func (s *FamilyStore) SpouseIDs(personID string) []string {
	return s.Graph().SpouseIDs(personID)
}

// ParentRelationships returns the parent edges of childID in the current state.
func (s *FamilyStore) ParentRelationships(childID string) []RelatedPerson {
	return s.Graph().ParentRelationships(childID)
}

// ChildRelationships returns the child edges of parentID in the current state.
func (s *FamilyStore) ChildRelationships(parentID string) []RelatedPerson {
	return s.Graph().ChildRelationships(parentID)
}

// SpouseRelationships returns the spouse edges of personID in the current state.
func (s *FamilyStore) SpouseRelationships(personID string) []SpouseLink {
	return s.Graph().SpouseRelationships(personID)
}

// requestFlush wakes the flusher without blocking. Pending requests coalesce.
func (s *FamilyStore) requestFlush() {
	if s.persistence == nil {
		return
	}
	select {
	case s.flushCh <- struct{}{}:
	default:
	}
}

func (s *FamilyStore) flushLoop() {
	defer close(s.done)
	for {
		select {
		case <-s.flushCh:
			s.backgroundFlush()
		case <-s.quit:
			s.backgroundFlush()
			return
		}
	}
}

func (s *FamilyStore) backgroundFlush() {
	ctx, cancel := context.WithTimeout(context.Background(), s.flushTimeout)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.logger.Error("persisting family tree failed", "error", err)
		if s.metrics != nil {
			s.metrics.PersistFailed()
		}
	}
}

// Flush saves the current state now if it changed since the last save.
func (s *FamilyStore) Flush(ctx context.Context) error {
	if s.persistence == nil {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	snap := s.Snapshot()
	if snap.Version == s.savedVersion {
		return nil
	}
	data, err := entities.EncodeFamilyTree(snap)
	if err != nil {
		return err
	}
	if err := s.persistence.Save(ctx, data); err != nil {
		return fmt.Errorf("saving family tree: %w", err)
	}
	s.savedVersion = snap.Version
	return nil
}

// Close stops the flusher after one last save attempt.
func (s *FamilyStore) Close(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.quit) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
