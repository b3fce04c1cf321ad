package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

type catalogService struct {
	api        ports.BookAPI
	identities ports.IdentityResolver
	sessions   ports.SessionService
	log        zerolog.Logger
}

// NewCatalogService returns a CatalogService over the backend API.
func NewCatalogService(api ports.BookAPI, identities ports.IdentityResolver, sessions ports.SessionService, log zerolog.Logger) ports.CatalogService {
	return &catalogService{
		api:        api,
		identities: identities,
		sessions:   sessions,
		log:        log.With().Str("component", "catalog").Logger(),
	}
}

func (s *catalogService) Bestsellers(ctx context.Context, token string) (json.RawMessage, error) {
	return wrap("bestsellers")(s.api.Bestsellers(ctx, token))
}

func (s *catalogService) BorrowBooks(ctx context.Context, token string) (json.RawMessage, error) {
	return wrap("borrow books")(s.api.BorrowBooks(ctx, token))
}

func (s *catalogService) BorrowBook(ctx context.Context, token, id string) (json.RawMessage, error) {
	return wrap("borrow book " + id)(s.api.BorrowBook(ctx, token, id))
}

func (s *catalogService) PurchaseBooks(ctx context.Context, token string) (json.RawMessage, error) {
	return wrap("purchase books")(s.api.PurchaseBooks(ctx, token))
}

func (s *catalogService) PurchaseBook(ctx context.Context, token, id string) (json.RawMessage, error) {
	return wrap("purchase book " + id)(s.api.PurchaseBook(ctx, token, id))
}

func (s *catalogService) BooksByInterests(ctx context.Context, token string) (json.RawMessage, error) {
	return wrap("books by interests")(s.api.BooksByInterests(ctx, token))
}

func (s *catalogService) Settings(ctx context.Context, token string) (json.RawMessage, error) {
	return wrap("settings")(s.api.Settings(ctx, token))
}

func (s *catalogService) UpdateSettings(ctx context.Context, token string, body json.RawMessage) (json.RawMessage, error) {
	return wrap("update settings")(s.api.UpdateSettings(ctx, token, body))
}

func (s *catalogService) Users(ctx context.Context, token string) (json.RawMessage, error) {
	return wrap("users")(s.api.Users(ctx, token))
}

func (s *catalogService) Interests(ctx context.Context, token string) (json.RawMessage, error) {
	return wrap("interests")(s.api.Interests(ctx, token))
}

// SaveInterests stores the selection and drops the cached identity, whose
// interests flag decides the client's home path.
func (s *catalogService) SaveInterests(ctx context.Context, token string, body json.RawMessage) (json.RawMessage, error) {
	out, err := s.api.SaveInterests(ctx, token, body)
	if err != nil {
		return nil, fmt.Errorf("save interests: %w", err)
	}
	s.identities.Invalidate(ctx, token)
	return out, nil
}

func (s *catalogService) VerifyEmail(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return wrap("verify email")(s.api.VerifyEmail(ctx, body))
}

// Logout ends the backend session, then forgets the identity and closes the
// live channel. A token the backend no longer knows still gets cleaned up.
func (s *catalogService) Logout(ctx context.Context, token string) error {
	err := s.api.Logout(ctx, token)
	if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
		return fmt.Errorf("logout: %w", err)
	}
	s.identities.Invalidate(ctx, token)
	s.sessions.Close(token)
	s.log.Info().Str("session", SessionID(token)).Msg("logged out")
	return nil
}

func wrap(op string) func(json.RawMessage, error) (json.RawMessage, error) {
	return func(raw json.RawMessage, err error) (json.RawMessage, error) {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return raw, nil
	}
}
