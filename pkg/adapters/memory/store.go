// Package memory provides the in-process session container.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/ecovoyage/pkg/domain"
)

// Store implements ports.TripStore in memory.
// Safe for concurrent use. Trips live until deleted or the process exits.
type Store struct {
	data map[string]*domain.Trip
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Trip),
	}
}

// Save keeps a private copy of the trip.
func (s *Store) Save(ctx context.Context, sessionID string, trip *domain.Trip) error {
	copied := trip.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load returns a copy so callers can't mutate the stored trip by pointer.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trip, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return trip.Snapshot(), nil
}

// Delete removes the trip.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active session IDs in lexical order.
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
