package domain

import "strings"

// Role gates which views are reachable and determines the home path.
type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleCourier  Role = "COURIER"
)

// AllRoles lists every role in a stable order.
var AllRoles = []Role{RoleClient, RoleEmployee, RoleManager, RoleCourier}

// ParseRole normalises s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleEmployee, RoleManager, RoleCourier:
		return true
	}
	return false
}

// Interest is a genre or topic a client picked on the interest-selection view.
type Interest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Identity is the authenticated user's resolved profile as returned by
// GET /auth/me.
type Identity struct {
	ID            int64   `json:"id"`
	Email         string  `json:"email"`
	FirstName     string  `json:"first_name,omitempty"`
	LastName      string  `json:"last_name,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Role          Role    `json:"role"`
	WalletBalance float64 `json:"wallet_balance"`
	// Interests is nil when the backend reports null, i.e. the client has not
	// been through interest selection yet.
	Interests *[]Interest `json:"interests"`
}

// InterestsConfigured reports whether the identity went through interest
// selection. An empty selection still counts as configured.
func (i *Identity) InterestsConfigured() bool {
	return i != nil && i.Interests != nil
}
