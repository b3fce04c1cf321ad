package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/booknook/storefront/internal/core/domain"
)

type stubResolver struct {
	identity *domain.Identity
	err      error
	tokens   []string
}

func (r *stubResolver) Resolve(_ context.Context, token string) (*domain.Identity, error) {
	r.tokens = append(r.tokens, token)
	return r.identity, r.err
}

func (r *stubResolver) Invalidate(context.Context, string) {}

func signed(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "10"})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func run(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (echo.Context, *httptest.ResponseRecorder, bool, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, rec, called, err
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != want {
		t.Fatalf("expected %d, got %d", want, he.Code)
	}
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := TokenFromRequest(req); got != "" {
		t.Fatalf("expected no token, got %q", got)
	}

	req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	if got := TokenFromRequest(req); got != "from-cookie" {
		t.Fatalf("expected cookie token, got %q", got)
	}

	req.Header.Set("Authorization", "bearer from-header")
	if got := TokenFromRequest(req); got != "from-header" {
		t.Fatalf("bearer header must win, got %q", got)
	}
}

func TestAuth_ResolvesIdentity(t *testing.T) {
	resolver := &stubResolver{identity: &domain.Identity{ID: 10, Role: domain.RoleManager}}
	tok := signed(t, "secret")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	c, rec, called, err := run(t, Auth(resolver, "secret"), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("next not called")
	}
	if c.Get(KeyToken) != tok {
		t.Fatalf("token not set")
	}
	if c.Get(KeyRole) != domain.RoleManager {
		t.Fatalf("role not set")
	}
	if id, _ := c.Get(KeyIdentity).(*domain.Identity); id == nil || id.ID != 10 {
		t.Fatalf("identity not set")
	}
}

func TestAuth_MissingToken(t *testing.T) {
	_, _, called, err := run(t, Auth(&stubResolver{}, ""), httptest.NewRequest(http.MethodGet, "/", nil))
	assertStatus(t, err, http.StatusUnauthorized)
	if called {
		t.Fatalf("next must not be called")
	}
}

func TestAuth_BadSignature(t *testing.T) {
	resolver := &stubResolver{identity: &domain.Identity{Role: domain.RoleClient}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "other"))

	_, _, _, err := run(t, Auth(resolver, "secret"), req)
	assertStatus(t, err, http.StatusUnauthorized)
	if len(resolver.tokens) != 0 {
		t.Fatalf("backend must not be asked about a forged token")
	}
}

func TestAuth_OpaqueTokenWithoutSecret(t *testing.T) {
	resolver := &stubResolver{identity: &domain.Identity{Role: domain.RoleCourier}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "opaque"})

	_, _, called, err := run(t, Auth(resolver, ""), req)
	if err != nil || !called {
		t.Fatalf("expected pass-through, got %v", err)
	}
}

func TestAuth_BackendRejectsToken(t *testing.T) {
	resolver := &stubResolver{err: domain.ErrUnauthenticated}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer opaque")

	_, _, _, err := run(t, Auth(resolver, ""), req)
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestAuth_BackendDownIsNotAnAuthFailure(t *testing.T) {
	resolver := &stubResolver{err: domain.ErrBackendUnavailable}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer opaque")

	_, _, _, err := run(t, Auth(resolver, ""), req)
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestToken_Optional(t *testing.T) {
	c, _, called, err := run(t, Token("secret"), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || !called {
		t.Fatalf("guest request must pass, got %v", err)
	}
	if c.Get(KeyToken) != nil {
		t.Fatalf("no token expected")
	}
}
