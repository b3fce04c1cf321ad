package ports

import (
	"context"

	"github.com/booknook/storefront/internal/core/domain"
)

// DecisionKind is the outcome of guarding a view.
type DecisionKind string

const (
	DecisionRender   DecisionKind = "render"
	DecisionRedirect DecisionKind = "redirect"
	// DecisionPending means identity resolution has not completed; no
	// navigation decision is taken yet.
	DecisionPending DecisionKind = "pending"
)

// Decision tells the browser what to do with a requested view.
type Decision struct {
	Kind     DecisionKind `json:"action"`
	Location string       `json:"location,omitempty"`
}

// NavigationResult is a decision plus the identity it was based on.
type NavigationResult struct {
	Decision Decision
	View     domain.View
	Identity *domain.Identity
}

// NavigationService decides whether a requested path renders or redirects.
type NavigationService interface {
	// Navigate accepts an empty token for guests.
	Navigate(ctx context.Context, token, path string) (*NavigationResult, error)
}
