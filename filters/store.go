// ABOUTME: Filter state store with synchronous change notification
// ABOUTME: Serializes mutations, persists snapshots and publishes them to subscribers
package filters

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"
)

// MaxSubscribers bounds the number of listeners a store notifies.
const MaxSubscribers = 16

var (
	ErrUnknownView        = errors.New("unknown saved view")
	ErrInvalidViewName    = errors.New("saved view name is required")
	ErrTooManySubscribers = errors.New("too many filter subscribers")
)

// Persister loads and saves filter state as an opaque blob.
// Load returns nil when nothing has been saved yet.
type Persister interface {
	Load() (*FilterState, error)
	Save(FilterState) error
}

// Listener receives an immutable snapshot after every mutation.
type Listener func(FilterState)

type subscription struct {
	id int
	fn Listener
}

// Store owns the current filter state. Listeners run synchronously inside the
// mutating call and must not call back into a setter.
type Store struct {
	mu        sync.RWMutex
	publishMu sync.Mutex
	state     FilterState
	persister Persister
	subs      []subscription
	nextID    int
	now       func() time.Time
}

// NewStore creates a store seeded from the persister, falling back to the
// default state when nothing is persisted or loading fails.
func NewStore(p Persister) *Store {
	s := &Store{
		state:     DefaultState(),
		persister: p,
		now:       time.Now,
	}
	if p == nil {
		return s
	}

	loaded, err := p.Load()
	if err != nil {
		log.Warn("failed to load filter state, using defaults", "err", err)
		return s
	}
	if loaded != nil {
		st := loaded.Clone()
		st.Selection = st.Selection.Normalize()
		s.state = st
	}
	return s
}

// Get returns a snapshot of the current state.
func (s *Store) Get() FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.subs) >= MaxSubscribers {
		return nil, ErrTooManySubscribers
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}, nil
}

// Set applies a partial update and publishes the resulting state.
func (s *Store) Set(p Patch) FilterState {
	return s.mutate(func(st *FilterState) error {
		st.Selection = st.Selection.Apply(p)
		st.ActiveView = ""
		return nil
	})
}

// Reset clears every selection while keeping saved views.
func (s *Store) Reset() FilterState {
	return s.mutate(func(st *FilterState) error {
		st.Selection = DefaultSelection()
		st.ActiveView = ""
		return nil
	})
}

// SaveView stores the current selection under name, replacing a view of the
// same name.
func (s *Store) SaveView(name string) (SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedView{}, ErrInvalidViewName
	}

	var saved SavedView
	_, err := s.mutateErr(func(st *FilterState) error {
		view := SavedView{
			ID:        ulid.Make().String(),
			Name:      name,
			CreatedAt: s.now(),
			Filters:   st.Selection.clone(),
		}
		for i, existing := range st.SavedViews {
			if existing.Name == name {
				view.ID = existing.ID
				view.CreatedAt = existing.CreatedAt
				st.SavedViews[i] = view
				saved = view
				st.ActiveView = name
				return nil
			}
		}
		st.SavedViews = append(st.SavedViews, view)
		st.ActiveView = name
		saved = view
		return nil
	})
	return saved, err
}

// ApplyView replaces the current selection with a saved view.
func (s *Store) ApplyView(name string) (FilterState, error) {
	return s.mutateErr(func(st *FilterState) error {
		view, ok := st.View(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownView, name)
		}
		st.Selection = view.Filters.clone().Normalize()
		st.ActiveView = name
		return nil
	})
}

// DeleteView removes a saved view.
func (s *Store) DeleteView(name string) error {
	_, err := s.mutateErr(func(st *FilterState) error {
		for i, v := range st.SavedViews {
			if v.Name == name {
				st.SavedViews = append(st.SavedViews[:i], st.SavedViews[i+1:]...)
				if st.ActiveView == name {
					st.ActiveView = ""
				}
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrUnknownView, name)
	})
	return err
}

func (s *Store) mutate(fn func(*FilterState) error) FilterState {
	st, _ := s.mutateErr(fn)
	return st
}

// mutateErr runs fn against a working copy, commits it, persists it and
// notifies listeners, all before returning. A failing fn leaves the state
// untouched and publishes nothing.
func (s *Store) mutateErr(fn func(*FilterState) error) (FilterState, error) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	working := s.state.Clone()
	if err := fn(&working); err != nil {
		s.mu.Unlock()
		return s.Get(), err
	}
	s.state = working
	snapshot := working.Clone()
	subs := append([]subscription(nil), s.subs...)
	s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.Save(snapshot.Clone()); err != nil {
			log.Warn("failed to persist filter state", "err", err)
		}
	}

	for _, sub := range subs {
		sub.fn(snapshot.Clone())
	}
	return snapshot, nil
}
