package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/booknook/storefront/internal/core/domain"
)

const keyPrefix = "identity:"

// IdentityCache stores resolved identities in Redis.
// Key format: identity:<sha256(token) hex>. Tokens are never written as-is.
type IdentityCache struct {
	client *redis.Client
}

// NewIdentityCache creates an IdentityCache wrapping the given Redis client.
func NewIdentityCache(client *redis.Client) *IdentityCache {
	return &IdentityCache{client: client}
}

// Get returns the cached identity, or nil when there is none.
func (c *IdentityCache) Get(ctx context.Context, token string) (*domain.Identity, error) {
	raw, err := c.client.Get(ctx, identityKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("identity cache get: %w", err)
	}

	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next Set.
		return nil, nil
	}
	return &id, nil
}

// Set stores the identity until ttl elapses.
func (c *IdentityCache) Set(ctx context.Context, token string, identity *domain.Identity, ttl time.Duration) error {
	if identity == nil || ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("identity cache encode: %w", err)
	}
	if err := c.client.Set(ctx, identityKey(token), raw, ttl).Err(); err != nil {
		return fmt.Errorf("identity cache set: %w", err)
	}
	return nil
}

// Delete removes the identity so the next resolution refetches it.
func (c *IdentityCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, identityKey(token)).Err(); err != nil {
		return fmt.Errorf("identity cache delete: %w", err)
	}
	return nil
}

func identityKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}
