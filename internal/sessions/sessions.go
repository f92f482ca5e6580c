// Package sessions keeps live flow state machines in memory, one per user
// session. Nothing is persisted: a session lives exactly as long as the
// process, which is all the payment-initiation flow requires.
package sessions

import (
	"sync"

	"boostpay/internal/flow"

	"github.com/google/uuid"
)

type Store struct {
	mu    sync.RWMutex
	flows map[string]*flow.Flow
}

func NewStore() *Store {
	return &Store{flows: make(map[string]*flow.Flow)}
}

// Create registers a new flow and returns its session id.
func (s *Store) Create(f *flow.Flow) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.flows[id] = f
	s.mu.Unlock()

	return id
}

func (s *Store) Get(id string) (*flow.Flow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.flows[id]
	return f, ok
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.flows, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions. Exposed for the expvar metrics.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flows)
}
