package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/eventdeck/pkg/domain"
)

// Store implements ports.TallyStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Tally
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Tally),
	}
}

// Save keeps a copy of the tally in memory.
func (s *Store) Save(ctx context.Context, sessionID string, tally *domain.Tally) error {
	copied := tally.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the tally from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Tally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tally, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so the caller can't mutate store state through the pointer
	return tally.Snapshot(), nil
}

// Delete removes the tally.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns known sessions in lexical order.
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
