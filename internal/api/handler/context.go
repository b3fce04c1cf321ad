package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknook/storefront/internal/api/middleware"
	"github.com/booknook/storefront/internal/core/domain"
)

// ctxToken returns the session token stored by the Token/Auth middleware,
// or "" for guests.
func ctxToken(c echo.Context) string {
	token, _ := c.Get(middleware.KeyToken).(string)
	return token
}

// ctxIdentity extracts the identity injected by the Auth middleware and
// fails fast when the route was registered without it.
func ctxIdentity(c echo.Context) (string, *domain.Identity, error) {
	token := ctxToken(c)
	identity, _ := c.Get(middleware.KeyIdentity).(*domain.Identity)
	if token == "" || identity == nil {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return token, identity, nil
}
