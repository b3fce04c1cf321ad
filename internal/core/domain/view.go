package domain

import "strings"

// Paths the guard redirects to.
const (
	PathRoot          = "/"
	PathLogin         = "/login"
	PathUnauthorized  = "/unauthorized"
	PathInterests     = "/interests"
	PathAdminBooks    = "/admin/books"
	PathCourierOrders = "/courier/orders"
)

// Access is how a view is gated.
type Access string

const (
	// AccessPublic views render for anyone, signed in or not.
	AccessPublic Access = "public"
	// AccessGuestOnly views (login, registration, password reset) send a
	// signed-in user to their home path.
	AccessGuestOnly Access = "guest_only"
	// AccessProtected views require an identity whose role is in Roles.
	AccessProtected Access = "protected"
)

// View is one routable page of the front-end.
type View struct {
	Pattern string
	Access  Access
	Roles   []Role
	// RequireInterests sends a client without configured interests to the
	// interest-selection view first.
	RequireInterests bool
}

var (
	staff       = []Role{RoleEmployee, RoleManager}
	clientOnly  = []Role{RoleClient}
	managerOnly = []Role{RoleManager}
)

// Views is the route table of the front-end.
var Views = []View{
	{Pattern: "/login", Access: AccessGuestOnly},
	{Pattern: "/register", Access: AccessGuestOnly},
	{Pattern: "/reset-password", Access: AccessGuestOnly},
	{Pattern: "/reset-password/:token", Access: AccessGuestOnly},
	{Pattern: "/verify-email", Access: AccessPublic},
	{Pattern: "/unauthorized", Access: AccessPublic},

	{Pattern: "/", Access: AccessProtected, Roles: clientOnly, RequireInterests: true},
	{Pattern: "/interests", Access: AccessProtected, Roles: clientOnly},
	{Pattern: "/books/borrow", Access: AccessProtected, Roles: clientOnly, RequireInterests: true},
	{Pattern: "/books/borrow/:id", Access: AccessProtected, Roles: clientOnly},
	{Pattern: "/books/purchase", Access: AccessProtected, Roles: clientOnly, RequireInterests: true},
	{Pattern: "/books/purchase/:id", Access: AccessProtected, Roles: clientOnly},
	{Pattern: "/cart", Access: AccessProtected, Roles: clientOnly},
	{Pattern: "/checkout", Access: AccessProtected, Roles: clientOnly},
	{Pattern: "/orders", Access: AccessProtected, Roles: clientOnly},
	{Pattern: "/orders/:id", Access: AccessProtected, Roles: clientOnly},
	{Pattern: "/return-orders", Access: AccessProtected, Roles: clientOnly},
	{Pattern: "/wallet", Access: AccessProtected, Roles: clientOnly},
	{Pattern: "/profile", Access: AccessProtected, Roles: AllRoles},

	{Pattern: "/admin/books", Access: AccessProtected, Roles: staff},
	{Pattern: "/admin/orders", Access: AccessProtected, Roles: staff},
	{Pattern: "/admin/return-orders", Access: AccessProtected, Roles: staff},
	{Pattern: "/admin/users", Access: AccessProtected, Roles: managerOnly},
	{Pattern: "/admin/settings", Access: AccessProtected, Roles: managerOnly},
	{Pattern: "/admin/promo-codes", Access: AccessProtected, Roles: managerOnly},

	{Pattern: "/courier/orders", Access: AccessProtected, Roles: []Role{RoleCourier}},
}

// LookupView finds the view whose pattern matches path. Pattern segments
// starting with ':' match any single non-empty segment. The query string and
// a trailing slash are ignored.
func LookupView(path string) (View, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = PathRoot
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, v := range Views {
		if matchPattern(v.Pattern, path) {
			return v, true
		}
	}
	return View{}, false
}

func matchPattern(pattern, path string) bool {
	if pattern == path {
		return true
	}
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
