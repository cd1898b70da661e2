package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock is a manually advanced clock for deterministic TTL tests.
type fakeClock struct {
	current time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.current
}

func (f *fakeClock) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}

func newTestCache(ttl time.Duration) (*Cache[string], *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewWithClock[string](ttl, clock.Now), clock
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(5 * time.Minute)

	c.Set("berlin", "cached")

	got, ok := c.Get("berlin")
	assert.True(t, ok)
	assert.Equal(t, "cached", got)
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c, _ := newTestCache(5 * time.Minute)

	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	c, clock := newTestCache(5 * time.Minute)

	c.Set("berlin", "cached")
	clock.Advance(5*time.Minute + time.Second)

	_, ok := c.Get("berlin")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be dropped on read")
}

func TestCache_SetReplacesEntry(t *testing.T) {
	c, clock := newTestCache(5 * time.Minute)

	c.Set("berlin", "old")
	clock.Advance(4 * time.Minute)
	c.Set("berlin", "new")
	clock.Advance(2 * time.Minute)

	// The replacement reset the TTL, so the entry is still live.
	got, ok := c.Get("berlin")
	assert.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestCache_Clear(t *testing.T) {
	c, _ := newTestCache(5 * time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_SweepRemovesOnlyExpired(t *testing.T) {
	c, clock := newTestCache(5 * time.Minute)

	c.Set("old", "1")
	clock.Advance(4 * time.Minute)
	c.Set("fresh", "2")
	clock.Advance(2 * time.Minute)

	removed := c.Sweep()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("fresh")
	assert.True(t, ok)
}
