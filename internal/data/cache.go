package data

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// ResultCache keeps simulation results in memory for a limited time so a
// client can fetch the full ledger of a run after receiving its summary.
// Entries are keyed by a random run ID. A nil *ResultCache is a disabled
// cache: Put returns an ID that Get never finds.
type ResultCache[V any] struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry[V]
	ttl   time.Duration
	now   func() time.Time
}

func NewResultCache[V any](ttl time.Duration) *ResultCache[V] {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache[V]{
		store: make(map[string]*cacheEntry[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Put stores value under a fresh run ID and returns the ID.
func (c *ResultCache[V]) Put(value V) string {
	id := uuid.NewString()
	if c == nil {
		return id
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[id] = &cacheEntry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
	return id
}

// Get retrieves a cached result if available and not expired.
func (c *ResultCache[V]) Get(id string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[id]
	if !exists || c.now().After(entry.expiresAt) {
		return zero, false
	}
	return entry.value, true
}

func (c *ResultCache[V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache.
func (c *ResultCache[V]) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*cacheEntry[V])
}

// Sweep removes expired entries and returns how many were dropped.
func (c *ResultCache[V]) Sweep() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for id, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is done.
func (c *ResultCache[V]) RunJanitor(ctx context.Context, interval time.Duration) {
	if c == nil {
		return
	}
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
}
