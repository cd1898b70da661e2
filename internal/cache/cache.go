// Package cache implements the in-process TTL cache used by the resolution
// and lookup services. Each service owns its own instance; there is no shared
// global. The clock is injectable so expiry is deterministic under test.
package cache

import (
	"context"
	"sync"
	"time"
)

// Clock returns the current time. Tests swap it for a fake.
type Clock func() time.Time

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a TTL cache with lazy expiry on read and an optional periodic
// sweep. Writes are idempotent replacements, so concurrent resolutions for
// the same key are last-write-wins.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     Clock
}

// New creates a cache whose entries expire after ttl.
func New[V any](ttl time.Duration) *Cache[V] {
	return NewWithClock[V](ttl, time.Now)
}

// NewWithClock creates a cache with an explicit clock.
func NewWithClock[V any](ttl time.Duration, now Clock) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the value for key. An entry past its TTL is never served; it is
// removed and reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock, a fresher value may have raced in.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Delete removes key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep removes all expired entries and returns how many were dropped.
func (c *Cache[V]) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (c *Cache[V]) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}
