package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore is an in-process LRU store with per-entry expiry.
type MemoryStore struct {
	lru *expirable.LRU[string, string]
}

// NewMemoryStore creates a store holding at most size entries for ttl each.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultSize
	}
	return &MemoryStore{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := s.lru.Get(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.lru.Add(key, value)
	return nil
}

// Len returns the number of cached entries.
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}

// Name implements Store.
func (s *MemoryStore) Name() string {
	return BackendMemory
}
