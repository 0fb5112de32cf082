// Package urlsync mirrors the state of the namespace dashboard variable into
// URL query parameters.
//
// A Store holds variable state and notifies subscribers of every change. A
// Syncer subscribed to the namespace variable writes the value into the
// page's search params, only ever in the variable to URL direction, so a
// URL that seeded the variable is never written back in a loop.
package urlsync

import (
	"sync"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// VariableState is the observable state of one dashboard variable.
type VariableState struct {
	Value   *domain.DefaultValue
	Loading bool
}

// Store is an in-memory variable state store. Subscribers are called
// synchronously, one change at a time, and must not call Set themselves.
type Store struct {
	deliver sync.Mutex

	mu     sync.Mutex
	states map[string]VariableState
	subs   map[string]map[uint64]func(*VariableState)
	nextID uint64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		states: make(map[string]VariableState),
		subs:   make(map[string]map[uint64]func(*VariableState)),
	}
}

// Get returns the state of variable name, or nil when it has none yet.
func (s *Store) Get(name string) *VariableState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(name)
}

func (s *Store) getLocked(name string) *VariableState {
	st, ok := s.states[name]
	if !ok {
		return nil
	}
	return &st
}

// Set replaces the state of variable name and notifies its subscribers.
func (s *Store) Set(name string, state VariableState) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.states[name] = state
	fns := make([]func(*VariableState), 0, len(s.subs[name]))
	for _, fn := range s.subs[name] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		st := state
		fn(&st)
	}
}

// Subscribe calls fn with the current state of variable name, nil when
// unset, and again after every Set. The returned func removes the
// subscription.
func (s *Store) Subscribe(name string, fn func(*VariableState)) (unsubscribe func()) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.subs[name] == nil {
		s.subs[name] = make(map[uint64]func(*VariableState))
	}
	s.subs[name][id] = fn
	current := s.getLocked(name)
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs[name], id)
			if len(s.subs[name]) == 0 {
				delete(s.subs, name)
			}
		})
	}
}
