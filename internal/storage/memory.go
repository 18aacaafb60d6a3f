package storage

import (
	"context"
	"sync"

	"dreamlog/internal/dream"
)

// MemStore is a non-persistent Store. It copies on every read and write so
// callers never share slices with it.
type MemStore struct {
	mu          sync.RWMutex
	dreams      []dream.Dream
	suggestions map[string][]string
}

func NewMemStore() *MemStore {
	return &MemStore{
		dreams:      []dream.Dream{},
		suggestions: make(map[string][]string),
	}
}

func (s *MemStore) Name() string { return "memory" }

// Close is a no-op for MemStore.
func (s *MemStore) Close() error { return nil }

func (s *MemStore) LoadDreams(_ context.Context) ([]dream.Dream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.dreams), nil
}

func (s *MemStore) SaveDreams(_ context.Context, dreams []dream.Dream) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dreams = cloneAll(dreams)
	return nil
}

func (s *MemStore) LoadSuggestions(_ context.Context, category string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.suggestions[category]...), nil
}

func (s *MemStore) SaveSuggestions(_ context.Context, category string, items []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions[category] = append([]string{}, items...)
	return nil
}
