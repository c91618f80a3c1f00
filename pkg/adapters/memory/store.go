package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/ewallt/ai-subject-explorer/pkg/ports"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Exploration
	mu   sync.RWMutex
}

var _ ports.SessionStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Exploration),
	}
}

// Save persists the record in memory.
func (s *Store) Save(ctx context.Context, sessionID string, exp *domain.Exploration) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := exp.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the record from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Exploration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exp, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so callers can't mutate store state through the pointer
	return exp.Clone(), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored session IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
