package memory

import (
	"context"
	"sync"
	"time"

	"filesmanager/core"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// memCache is an in-process session cache with lazy expiry: stale
// entries are dropped on read rather than by a sweeper.
type memCache struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewCache creates a new in-memory session cache.
func NewCache() *memCache {
	return &memCache{entries: make(map[string]entry)}
}

func (c *memCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", core.ErrNotFound
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return "", core.ErrNotFound
	}
	return e.value, nil
}

func (c *memCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memCache) Ping(ctx context.Context) error {
	return nil
}
