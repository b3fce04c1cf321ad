package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

func TestNavigationService_ClientWithoutInterestsGoesToInterests(t *testing.T) {
	svc := NewNavigationService(&stubResolver{identity: clientIdentity(false)}, 0, zerolog.Nop())

	res, err := svc.Navigate(context.Background(), "tok", "/")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if res.Decision.Kind != ports.DecisionRedirect || res.Decision.Location != "/interests" {
		t.Fatalf("expected redirect to /interests, got %+v", res.Decision)
	}
}

func TestNavigationService_EmployeeOnClientView(t *testing.T) {
	svc := NewNavigationService(&stubResolver{identity: &domain.Identity{ID: 2, Role: domain.RoleEmployee}}, 0, zerolog.Nop())

	res, err := svc.Navigate(context.Background(), "tok", "/cart")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if res.Decision.Location != "/unauthorized" {
		t.Fatalf("expected /unauthorized, got %+v", res.Decision)
	}
}

func TestNavigationService_GuestIsSentToLogin(t *testing.T) {
	svc := NewNavigationService(&stubResolver{}, 0, zerolog.Nop())

	res, err := svc.Navigate(context.Background(), "", "/orders")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if res.Decision.Location != "/login" {
		t.Fatalf("expected /login, got %+v", res.Decision)
	}
}

func TestNavigationService_RejectedTokenIsAbsent(t *testing.T) {
	svc := NewNavigationService(&stubResolver{err: domain.ErrUnauthenticated}, 0, zerolog.Nop())

	res, err := svc.Navigate(context.Background(), "stale", "/login")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if res.Decision.Kind != ports.DecisionRender {
		t.Fatalf("guest-only view should render for an absent identity, got %+v", res.Decision)
	}
}

func TestNavigationService_SignedInUserLeavesLogin(t *testing.T) {
	svc := NewNavigationService(&stubResolver{identity: &domain.Identity{ID: 3, Role: domain.RoleManager}}, 0, zerolog.Nop())

	res, err := svc.Navigate(context.Background(), "tok", "/login")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if res.Decision.Location != "/admin/books" {
		t.Fatalf("expected /admin/books, got %+v", res.Decision)
	}
}

func TestNavigationService_SlowResolutionIsPending(t *testing.T) {
	api := newStubBookAPI()
	api.identities["tok"] = clientIdentity(true)
	api.meDelay = time.Second
	identities := NewIdentityService(api, newStubIdentityCache(), time.Minute, zerolog.Nop())
	svc := NewNavigationService(identities, 20*time.Millisecond, zerolog.Nop())

	res, err := svc.Navigate(context.Background(), "tok", "/orders")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if res.Decision.Kind != ports.DecisionPending {
		t.Fatalf("expected pending, got %+v", res.Decision)
	}
}

func TestNavigationService_BackendFailureSurfaces(t *testing.T) {
	svc := NewNavigationService(&stubResolver{err: domain.ErrBackendUnavailable}, 0, zerolog.Nop())

	if _, err := svc.Navigate(context.Background(), "tok", "/orders"); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestNavigationService_UnknownPath(t *testing.T) {
	svc := NewNavigationService(&stubResolver{}, 0, zerolog.Nop())

	if _, err := svc.Navigate(context.Background(), "", "/does-not-exist"); !errors.Is(err, domain.ErrViewNotFound) {
		t.Fatalf("expected ErrViewNotFound, got %v", err)
	}
}
