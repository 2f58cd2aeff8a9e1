package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements an in-memory key-value cache with TTL support.
// It satisfies the translation service's Store interface and stands in for
// Redis when the cache backend is unreachable (losing entries is safe, the
// cache is never a source of truth) and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]*entry
	maxSize int
}

// entry represents a single cache entry
type entry struct {
	value     string
	expiresAt time.Time
	createdAt time.Time
}

// NewMemoryStore creates a new in-memory store holding at most maxSize entries
func NewMemoryStore(maxSize int) *MemoryStore {
	return &MemoryStore{
		data:    make(map[string]*entry),
		maxSize: maxSize,
	}
}

// Get retrieves a value by key. The second return is false on a miss.
func (ms *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	ms.mu.RLock()
	e, exists := ms.data[key]
	ms.mu.RUnlock()

	if !exists {
		return "", false, nil
	}
	if time.Now().After(e.expiresAt) {
		ms.mu.Lock()
		delete(ms.data, key)
		ms.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

// SetEx stores a value with the given TTL
func (ms *MemoryStore) SetEx(_ context.Context, key string, ttl time.Duration, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.maxSize > 0 && len(ms.data) >= ms.maxSize {
		ms.evictOldest()
	}

	now := time.Now()
	ms.data[key] = &entry{
		value:     value,
		expiresAt: now.Add(ttl),
		createdAt: now,
	}
	return nil
}

// Len returns the number of entries, expired ones included
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.data)
}

// evictOldest removes the oldest entry. Caller must hold the write lock.
func (ms *MemoryStore) evictOldest() {
	var oldestKey string
	var oldestAt time.Time

	for key, e := range ms.data {
		if oldestKey == "" || e.createdAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.createdAt
		}
	}
	if oldestKey != "" {
		delete(ms.data, oldestKey)
	}
}
