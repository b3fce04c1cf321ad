package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/booknook/storefront/internal/api/metrics"
	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

const (
	defaultIdentityTTL = 5 * time.Minute
	// fetchTimeout bounds a shared /auth/me call, which runs detached from
	// the callers' contexts.
	fetchTimeout = 15 * time.Second
)

// tokenState tracks fetches in flight for one token. gen moves on every
// Invalidate; a fetch that started under an older gen must not be cached.
type tokenState struct {
	gen      uint64
	inflight int
}

// IdentityService resolves session tokens through GET /auth/me and keeps the
// result for a freshness window.
type IdentityService struct {
	api   ports.BookAPI
	cache ports.IdentityCache
	ttl   time.Duration
	group singleflight.Group
	log   zerolog.Logger
	now   func() time.Time

	mu     sync.Mutex
	tokens map[string]*tokenState
}

// NewIdentityService returns an IdentityService. A non-positive ttl falls back
// to five minutes.
func NewIdentityService(api ports.BookAPI, cache ports.IdentityCache, ttl time.Duration, log zerolog.Logger) *IdentityService {
	if ttl <= 0 {
		ttl = defaultIdentityTTL
	}
	return &IdentityService{
		api:    api,
		cache:  cache,
		ttl:    ttl,
		log:    log.With().Str("component", "identity").Logger(),
		now:    time.Now,
		tokens: make(map[string]*tokenState),
	}
}

// Resolve returns the identity behind token. Concurrent calls for the same
// token share a single backend request.
func (s *IdentityService) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	cached, err := s.cache.Get(ctx, token)
	if err != nil {
		s.log.Warn().Err(err).Msg("identity cache read failed, fetching from backend")
	} else if cached != nil {
		metrics.IdentityCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.IdentityCacheTotal.WithLabelValues("miss").Inc()

	// The shared fetch outlives any single caller; each caller still gives up
	// on its own context.
	ch := s.group.DoChan(token, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), token)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("resolve identity: %w", res.Err)
		}
		return res.Val.(*domain.Identity), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("resolve identity: %w", ctx.Err())
	}
}

func (s *IdentityService) fetch(ctx context.Context, token string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	st, gen := s.begin(token)
	defer s.end(token, st)

	identity, err := s.api.Me(ctx, token)
	if err != nil {
		return nil, err
	}
	if !identity.Role.Valid() {
		return nil, fmt.Errorf("unexpected role %q: %w", identity.Role, domain.ErrUnauthenticated)
	}

	ttl := s.freshness(token)
	if ttl <= 0 {
		return identity, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st.gen != gen {
		s.log.Debug().Msg("identity invalidated during fetch, not caching")
		return identity, nil
	}
	if err := s.cache.Set(ctx, token, identity, ttl); err != nil {
		s.log.Warn().Err(err).Msg("failed to cache identity")
	}
	return identity, nil
}

func (s *IdentityService) begin(token string) (*tokenState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.tokens[token]
	if !ok {
		st = &tokenState{}
		s.tokens[token] = st
	}
	st.inflight++
	return st, st.gen
}

func (s *IdentityService) end(token string, st *tokenState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.inflight--
	if st.inflight == 0 && s.tokens[token] == st {
		delete(s.tokens, token)
	}
}

// Invalidate drops the cached identity so the next Resolve refetches it.
// A fetch already in flight still answers its callers but is not cached.
func (s *IdentityService) Invalidate(ctx context.Context, token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	if st, ok := s.tokens[token]; ok {
		st.gen++
	}
	s.mu.Unlock()

	s.group.Forget(token)
	if err := s.cache.Delete(ctx, token); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate identity")
	}
}

// freshness is the configured ttl, shortened to the token's own expiry when
// the token is a JWT carrying an exp claim. The signature is not checked here;
// the backend is the authority on the token.
func (s *IdentityService) freshness(token string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return s.ttl
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return s.ttl
	}
	left := exp.Sub(s.now())
	if left < s.ttl {
		return left
	}
	return s.ttl
}
