// Package cache holds the in-process caches of the gateway: the per-session
// collection cache fed by REST reads and live messages, and the in-memory
// identity cache used when no Redis is configured.
package cache

import (
	"slices"
	"sync"
	"time"

	"github.com/booknook/storefront/internal/core/domain"
)

type collection struct {
	records   []domain.Record
	fetchedAt time.Time
}

// QueryCache stores collections keyed by name. Callers get copies of the
// slice; records themselves are never mutated in place, updates swap them.
type QueryCache struct {
	mu          sync.RWMutex
	collections map[string]collection
	now         func() time.Time
}

// NewQueryCache returns an empty cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{
		collections: make(map[string]collection),
		now:         time.Now,
	}
}

// Get returns the cached collection and when it was last stored by Set.
func (c *QueryCache) Get(key string) ([]domain.Record, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	col, ok := c.collections[key]
	if !ok {
		return nil, time.Time{}, false
	}
	return slices.Clone(col.records), col.fetchedAt, true
}

// Set replaces a collection and stamps it as freshly fetched.
func (c *QueryCache) Set(key string, records []domain.Record) {
	if records == nil {
		records = []domain.Record{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collections[key] = collection{records: slices.Clone(records), fetchedAt: c.now()}
}

// Update rewrites a cached collection with fn, keeping its fetched-at stamp.
// A collection that was never loaded is left alone and Update reports false.
func (c *QueryCache) Update(key string, fn func([]domain.Record) []domain.Record) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	col, ok := c.collections[key]
	if !ok {
		return false
	}
	col.records = fn(slices.Clone(col.records))
	c.collections[key] = col
	return true
}

// Invalidate drops a collection so the next read goes to the backend.
func (c *QueryCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.collections, key)
}

// Fresh reports whether the collection is cached and younger than window.
// A zero window means cached entries never go stale.
func (c *QueryCache) Fresh(key string, window time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	col, ok := c.collections[key]
	if !ok {
		return false
	}
	return window <= 0 || c.now().Sub(col.fetchedAt) < window
}

// Keys lists the cached collection names.
func (c *QueryCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.collections))
	for k := range c.collections {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
