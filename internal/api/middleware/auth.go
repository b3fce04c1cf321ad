package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
	"github.com/booknook/storefront/internal/infrastructure/bookapi"
)

// Context keys set by the middleware in this package.
const (
	KeyToken    = "token"
	KeyIdentity = "identity"
	KeyRole     = "role"
)

// TokenFromRequest returns the session token from the Authorization bearer
// header, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if ck, err := r.Cookie(bookapi.SessionCookie); err == nil {
		return ck.Value
	}
	return ""
}

// Token extracts the session token when one is present and stores it under
// KeyToken. Requests without a token pass through. When jwtSecret is set the
// token must carry a valid HS256 signature.
func Token(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromRequest(c.Request())
			if token == "" {
				return next(c)
			}
			if err := verify(token, jwtSecret); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			c.Set(KeyToken, token)
			return next(c)
		}
	}
}

// Auth requires a session token the backend recognises. The resolved
// identity and its role are stored under KeyIdentity and KeyRole.
func Auth(identities ports.IdentityResolver, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return Token(jwtSecret)(func(c echo.Context) error {
			token, _ := c.Get(KeyToken).(string)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
			}

			identity, err := identities.Resolve(c.Request().Context(), token)
			if errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrForbidden) {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}
			if err != nil {
				return err
			}

			c.Set(KeyIdentity, identity)
			c.Set(KeyRole, identity.Role)
			return next(c)
		})
	}
}

// verify checks the HS256 signature of token. An empty secret disables the
// check; the backend stays the authority on the session either way.
func verify(token, secret string) error {
	if secret == "" {
		return nil
	}
	tkn, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !tkn.Valid {
		return jwt.ErrTokenSignatureInvalid
	}
	return nil
}
