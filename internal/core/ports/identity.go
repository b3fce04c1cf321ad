package ports

import (
	"context"
	"time"

	"github.com/booknook/storefront/internal/core/domain"
)

// IdentityCache stores resolved identities for a bounded freshness window.
// Get returns (nil, nil) on a miss.
type IdentityCache interface {
	Get(ctx context.Context, token string) (*domain.Identity, error)
	Set(ctx context.Context, token string, identity *domain.Identity, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// IdentityResolver resolves the identity behind a session token.
type IdentityResolver interface {
	// Resolve returns domain.ErrUnauthenticated when the backend does not
	// recognise the token.
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
	// Invalidate marks the cached identity stale so the next Resolve refetches it.
	Invalidate(ctx context.Context, token string)
}
