// Package store implements the roster's record store: the canonical
// collection of students, the filtered view derived from it by the
// current search term, and the currently selected record.
//
// All mutation goes through the store's methods. The filtered view is a
// projection that is recomputed from the canonical collection after every
// change; it is never patched on its own.
//
// A Store is safe for concurrent use. Every method runs under one
// RWMutex, so a reader never sees a filtered view that was computed
// against an older collection.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aanand-mishra/students-roster/internal/types"
	"github.com/google/uuid"
)

// ErrDuplicateID is returned by New when two seed records share an id.
var ErrDuplicateID = errors.New("duplicate student id")

// maxIDAttempts bounds how many times Add asks the generator for an id
// that is not already taken.
const maxIDAttempts = 8

// IDGenerator returns a new, ideally globally unique, record id.
type IDGenerator func() string

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the default uuid generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// View is a consistent read of the whole store state.
type View struct {
	All        []types.Student `json:"all"`
	Filtered   []types.Student `json:"filtered"`
	Selected   *types.Student  `json:"selected"`
	SearchTerm string          `json:"searchTerm"`
}

// Store is the in-memory roster.
//
// all and filtered hold the same *types.Student pointers, so an edit made
// through one is visible through the other.
type Store struct {
	mu         sync.RWMutex
	all        []*types.Student
	filtered   []*types.Student
	selected   *types.Student
	searchTerm string

	newID IDGenerator
	log   *slog.Logger
}

// New builds a store seeded with the given records, in order.
// Seed records without an id get a generated one.
func New(seed []types.Student, opts ...Option) (*Store, error) {
	s := &Store{
		newID: uuid.NewString,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	seen := make(map[string]struct{}, len(seed))
	for _, rec := range seed {
		if rec.ID == "" {
			continue
		}
		if _, ok := seen[rec.ID]; ok {
			return nil, fmt.Errorf("store.New: %w: %s", ErrDuplicateID, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}

	s.all = make([]*types.Student, 0, len(seed))
	for _, rec := range seed {
		if rec.ID == "" {
			rec.ID = s.uniqueID(seen)
			seen[rec.ID] = struct{}{}
		}
		r := rec
		s.all = append(s.all, &r)
	}
	s.refilter()

	s.log.Debug("store seeded", slog.Int("records", len(s.all)))
	return s, nil
}

// Search sets the search term and recomputes the filtered view.
func (s *Store) Search(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.searchTerm = term
	s.refilter()
	s.log.Debug("search", slog.String("term", term), slog.Int("matches", len(s.filtered)))
}

// Select points the selection at the record with the given id, or clears
// it when no such record exists.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rec := s.find(id)
	s.selected = rec
}

// ClearSelection drops the current selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Add creates a record from in with a freshly generated id, appends it to
// the collection and returns it.
//
// Add does not touch the selection.
func (s *Store) Add(in types.StudentInput) types.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]struct{}, len(s.all))
	for _, rec := range s.all {
		taken[rec.ID] = struct{}{}
	}

	rec := &types.Student{ID: s.uniqueID(taken), StudentInput: in}
	s.all = append(s.all, rec)
	s.refilter()

	s.log.Debug("student added", slog.String("id", rec.ID))
	return *rec
}

// Edit replaces the fields of the record with the given id by in.
// Fields left empty in in are dropped from the record, not kept.
// Unknown ids are ignored.
func (s *Store) Edit(id string, in types.StudentInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rec := s.find(id)
	if rec == nil {
		return
	}
	// in place: filtered and selected hold the same pointer
	*rec = types.Student{ID: id, StudentInput: in}
	s.refilter()

	s.log.Debug("student edited", slog.String("id", id))
}

// Remove deletes the record with the given id. Unknown ids are ignored.
// The selection is left as it is.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, _ := s.find(id)
	if i < 0 {
		return
	}
	s.all = append(s.all[:i:i], s.all[i+1:]...)
	s.refilter()

	s.log.Debug("student removed", slog.String("id", id))
}

// Get returns the record with the given id without changing the selection.
func (s *Store) Get(id string) (types.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, rec := s.find(id)
	if rec == nil {
		return types.Student{}, false
	}
	return *rec, true
}

// All returns a copy of the canonical collection in creation order.
func (s *Store) All() []types.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyOut(s.all)
}

// Filtered returns a copy of the records matching the current search term.
func (s *Store) Filtered() []types.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyOut(s.filtered)
}

// Selected returns the selected record as it currently reads.
func (s *Store) Selected() (types.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return types.Student{}, false
	}
	return *s.selected, true
}

// SearchTerm returns the term driving the filtered view.
func (s *Store) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchTerm
}

// Snapshot returns every piece of state read under a single lock.
func (s *Store) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		All:        copyOut(s.all),
		Filtered:   copyOut(s.filtered),
		SearchTerm: s.searchTerm,
	}
	if s.selected != nil {
		sel := *s.selected
		v.Selected = &sel
	}
	return v
}

// find must be called with mu held.
func (s *Store) find(id string) (int, *types.Student) {
	for i, rec := range s.all {
		if rec.ID == id {
			return i, rec
		}
	}
	return -1, nil
}

// refilter rebuilds filtered from all. Must be called with mu held.
func (s *Store) refilter() {
	needle := strings.ToLower(s.searchTerm)
	filtered := make([]*types.Student, 0, len(s.all))
	for _, rec := range s.all {
		if matchesLower(rec, needle) {
			filtered = append(filtered, rec)
		}
	}
	s.filtered = filtered
}

// uniqueID asks the generator for an id not present in taken. A generator
// that keeps colliding gets its id suffixed with a uuid.
func (s *Store) uniqueID(taken map[string]struct{}) string {
	var id string
	for range maxIDAttempts {
		id = s.newID()
		if _, ok := taken[id]; !ok && id != "" {
			return id
		}
	}
	s.log.Warn("id generator keeps colliding", slog.String("id", id))
	return id + "-" + uuid.NewString()
}

func copyOut(recs []*types.Student) []types.Student {
	out := make([]types.Student, 0, len(recs))
	for _, rec := range recs {
		out = append(out, *rec)
	}
	return out
}
