package cachebackend

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/sagarc03/stratum"
)

// MapStore keeps cached values in memory. It is useful for tests and for
// long-running processes that reload configuration without a persistent cache.
type MapStore struct {
	mu      sync.RWMutex
	entries map[string]stratum.CacheEntry
}

// NewMapStore creates a map store seeded with values.
func NewMapStore(values map[string]string) *MapStore {
	s := &MapStore{entries: make(map[string]stratum.CacheEntry, len(values))}
	now := time.Now().UTC()
	for k, v := range values {
		s.entries[k] = stratum.CacheEntry{Key: k, Value: v, UpdatedAt: now}
	}
	return s
}

func (s *MapStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return e.Value, ok, nil
}

func (s *MapStore) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if e, ok := s.entries[k]; ok {
			out[k] = e.Value
		}
	}
	return out, nil
}

func (s *MapStore) PutAll(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for k, v := range values {
		s.entries[k] = stratum.CacheEntry{Key: k, Value: v, UpdatedAt: now}
	}
	return nil
}

func (s *MapStore) List(ctx context.Context) ([]stratum.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]stratum.CacheEntry, 0, len(s.entries))
	for _, k := range slices.Sorted(maps.Keys(s.entries)) {
		entries = append(entries, s.entries[k])
	}
	return entries, nil
}

func (s *MapStore) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(keys) == 0 {
		clear(s.entries)
		return nil
	}
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}
