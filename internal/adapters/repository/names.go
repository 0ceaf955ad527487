package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/okian/herostats/pkg/metrics"
)

// MemoryNameStore is a NameStore backed by a map.
type MemoryNameStore struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewMemoryNameStore returns an empty name store.
func NewMemoryNameStore() *MemoryNameStore {
	return &MemoryNameStore{names: make(map[string]string)}
}

func (s *MemoryNameStore) Get(_ context.Context, playerID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.names[playerID]
	if !ok {
		return "", fmt.Errorf("name for %s: %w", playerID, ErrNotFound)
	}
	return name, nil
}

// Put stores name for playerID, replacing any earlier name.
func (s *MemoryNameStore) Put(_ context.Context, playerID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name for %s: %w", playerID, ErrInvalidName)
	}

	s.mu.Lock()
	s.names[playerID] = name
	n := len(s.names)
	s.mu.Unlock()

	metrics.UpdateNamesKnown(n)
	return nil
}

func (s *MemoryNameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}
