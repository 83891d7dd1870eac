package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache keeps up to limit entries in process memory. When full, the
// oldest entry is evicted.
type MemoryCache struct {
	mu      sync.Mutex
	limit   int
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	stored    time.Time
	expiresAt time.Time
}

// NewMemoryCache creates a cache bounded to limit entries. limit <= 0 means
// unbounded.
func NewMemoryCache(limit int) *MemoryCache {
	return &MemoryCache{limit: limit, entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e := memoryEntry{data: data, stored: now}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	if _, exists := c.entries[key]; !exists && c.limit > 0 && len(c.entries) >= c.limit {
		c.evict()
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryCache) evict() {
	var victim string
	var oldest time.Time
	for k, e := range c.entries {
		if victim == "" || e.stored.Before(oldest) {
			victim, oldest = k, e.stored
		}
	}
	delete(c.entries, victim)
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) Close() error { return nil }

var _ Cache = (*MemoryCache)(nil)
