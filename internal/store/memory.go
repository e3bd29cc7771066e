package store

import (
	"context"
	"sync"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// MemoryStore is an in-process Store for tests and dry runs.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]domain.NoticeSet
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]domain.NoticeSet)}
}

// Load returns a copy of the stored snapshot.
func (s *MemoryStore) Load(_ context.Context, siteKey string) (domain.NoticeSet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[siteKey]
	if !ok {
		return domain.NoticeSet{}, false, nil
	}
	return set.Clone(), true, nil
}

// Save stores a copy of the given snapshot.
func (s *MemoryStore) Save(_ context.Context, siteKey string, set domain.NoticeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets[siteKey] = set.Clone()
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
