package service

import (
	"slices"

	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

// ResolutionState is where identity resolution stands for a request.
type ResolutionState int

const (
	Resolving ResolutionState = iota
	Resolved
	Absent
)

// Resolution is the identity resolver's output as seen by the guard.
// Identity is only set when State is Resolved.
type Resolution struct {
	State    ResolutionState
	Identity *domain.Identity
}

// HomePath returns the view a role lands on after signing in.
func HomePath(role domain.Role, interestsConfigured bool) string {
	switch role {
	case domain.RoleEmployee, domain.RoleManager:
		return domain.PathAdminBooks
	case domain.RoleCourier:
		return domain.PathCourierOrders
	}
	if !interestsConfigured {
		return domain.PathInterests
	}
	return domain.PathRoot
}

// Guard decides a protected view.
func Guard(res Resolution, allowed []domain.Role) ports.Decision {
	switch {
	case res.State == Resolving:
		return ports.Decision{Kind: ports.DecisionPending}
	case res.State == Absent || res.Identity == nil:
		return redirect(domain.PathLogin)
	case !slices.Contains(allowed, res.Identity.Role):
		return redirect(domain.PathUnauthorized)
	}
	return ports.Decision{Kind: ports.DecisionRender}
}

// GuestOnly decides a guest-only view (login, registration, password reset).
func GuestOnly(res Resolution) ports.Decision {
	switch {
	case res.State == Resolving:
		return ports.Decision{Kind: ports.DecisionPending}
	case res.State == Resolved && res.Identity != nil:
		return redirect(HomePath(res.Identity.Role, res.Identity.InterestsConfigured()))
	}
	return ports.Decision{Kind: ports.DecisionRender}
}

// GuardView applies the access mode of v.
func GuardView(res Resolution, v domain.View) ports.Decision {
	switch v.Access {
	case domain.AccessPublic:
		return ports.Decision{Kind: ports.DecisionRender}
	case domain.AccessGuestOnly:
		return GuestOnly(res)
	}

	d := Guard(res, v.Roles)
	if d.Kind != ports.DecisionRender || !v.RequireInterests {
		return d
	}
	id := res.Identity
	if id.Role == domain.RoleClient && !id.InterestsConfigured() {
		return redirect(HomePath(id.Role, false))
	}
	return d
}

func redirect(location string) ports.Decision {
	return ports.Decision{Kind: ports.DecisionRedirect, Location: location}
}
