package cache

import (
	"context"
	"sync"
	"time"

	"github.com/booknook/storefront/internal/core/domain"
)

type identityEntry struct {
	identity  domain.Identity
	expiresAt time.Time
}

// MemoryIdentityCache is the in-process ports.IdentityCache used when no
// Redis address is configured. Expired entries are dropped on read.
type MemoryIdentityCache struct {
	mu      sync.Mutex
	entries map[string]identityEntry
	now     func() time.Time
}

// NewMemoryIdentityCache returns an empty cache.
func NewMemoryIdentityCache() *MemoryIdentityCache {
	return &MemoryIdentityCache{
		entries: make(map[string]identityEntry),
		now:     time.Now,
	}
}

func (c *MemoryIdentityCache) Get(_ context.Context, token string) (*domain.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[token]
	if !ok {
		return nil, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, token)
		return nil, nil
	}
	id := e.identity
	return &id, nil
}

func (c *MemoryIdentityCache) Set(_ context.Context, token string, identity *domain.Identity, ttl time.Duration) error {
	if identity == nil || ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = identityEntry{identity: *identity, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryIdentityCache) Delete(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
	return nil
}
