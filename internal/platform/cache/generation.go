// Package cache provides a search-result cache whose entries can all be
// invalidated at once without a global lock. Each entry is tagged with the
// cache generation that was current when it was stored; a write swaps in a
// fresh generation and cancels the old one, so every stale entry misses on
// its next read. Staleness, not correctness, is the only risk, so reads never
// block waiting for writes.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	done     <-chan struct{} // closed when the entry's generation is retired
	storedAt time.Time
}

// Generational is a key-value cache with generation-scoped invalidation.
type Generational[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	gen     chan struct{} // current generation token
	ttl     time.Duration // 0 means no per-entry TTL
}

// New creates a cache. A non-zero ttl additionally expires individual entries.
func New[V any](ttl time.Duration) *Generational[V] {
	return &Generational[V]{
		entries: make(map[string]entry[V]),
		gen:     make(chan struct{}),
		ttl:     ttl,
	}
}

// Get returns the cached value for key, or false when the entry is absent,
// expired, or belongs to a retired generation.
func (c *Generational[V]) Get(key string) (V, bool) {
	var zero V
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	select {
	case <-e.done:
		// Generation retired since the entry was stored.
		return zero, false
	default:
	}
	if c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		return zero, false
	}
	return e.value, true
}

// Set stores a value tagged with the current generation.
func (c *Generational[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{
		value:    value,
		done:     c.gen,
		storedAt: time.Now(),
	}
}

// InvalidateAll retires the current generation. Every outstanding entry
// misses on its next read; no entry is eagerly removed.
func (c *Generational[V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	close(c.gen)
	c.gen = make(chan struct{})
}
