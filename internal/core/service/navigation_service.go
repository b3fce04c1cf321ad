package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/booknook/storefront/internal/api/metrics"
	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

type navigationService struct {
	identities     ports.IdentityResolver
	resolveTimeout time.Duration
	log            zerolog.Logger
}

// NewNavigationService returns a NavigationService. When resolveTimeout is
// positive, an identity lookup that has not completed within it yields a
// pending decision instead of blocking the browser.
func NewNavigationService(identities ports.IdentityResolver, resolveTimeout time.Duration, log zerolog.Logger) ports.NavigationService {
	return &navigationService{
		identities:     identities,
		resolveTimeout: resolveTimeout,
		log:            log.With().Str("component", "navigation").Logger(),
	}
}

// Navigate looks up the view for path, resolves the caller and applies the guard.
func (s *navigationService) Navigate(ctx context.Context, token, path string) (*ports.NavigationResult, error) {
	view, ok := domain.LookupView(path)
	if !ok {
		return nil, domain.ErrViewNotFound
	}

	res := Resolution{State: Absent}
	if view.Access != domain.AccessPublic {
		var err error
		res, err = s.resolve(ctx, token)
		if err != nil {
			return nil, err
		}
	}

	d := GuardView(res, view)
	metrics.GuardDecisionsTotal.WithLabelValues(string(d.Kind), d.Location).Inc()

	s.log.Debug().
		Str("path", path).
		Str("view", view.Pattern).
		Str("action", string(d.Kind)).
		Str("location", d.Location).
		Msg("navigation decided")

	return &ports.NavigationResult{Decision: d, View: view, Identity: res.Identity}, nil
}

func (s *navigationService) resolve(ctx context.Context, token string) (Resolution, error) {
	if token == "" {
		return Resolution{State: Absent}, nil
	}

	rctx := ctx
	if s.resolveTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, s.resolveTimeout)
		defer cancel()
	}

	identity, err := s.identities.Resolve(rctx, token)
	switch {
	case err == nil:
		return Resolution{State: Resolved, Identity: identity}, nil
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrForbidden):
		return Resolution{State: Absent}, nil
	case ctx.Err() == nil && errors.Is(rctx.Err(), context.DeadlineExceeded):
		// Our own deadline fired, the caller is still waiting.
		return Resolution{State: Resolving}, nil
	}
	return Resolution{}, err
}
