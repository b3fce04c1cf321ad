package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/booknook/storefront/internal/api/middleware"
	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

type stubNavigation struct {
	result *ports.NavigationResult
	err    error
	token  string
	path   string
}

func (s *stubNavigation) Navigate(_ context.Context, token, path string) (*ports.NavigationResult, error) {
	s.token, s.path = token, path
	return s.result, s.err
}

type stubSessions struct {
	status        *ports.LiveStatus
	statusErr     error
	attachErr     error
	notifications []domain.Notification
	attached      int
	detached      int
}

func (s *stubSessions) Attach(context.Context, string) (*ports.LiveStatus, error) {
	if s.attachErr != nil {
		return nil, s.attachErr
	}
	s.attached++
	return &ports.LiveStatus{SessionID: "abc", Connected: true, Consumers: s.attached}, nil
}

func (s *stubSessions) Detach(string) (*ports.LiveStatus, error) {
	s.detached++
	return &ports.LiveStatus{SessionID: "abc"}, nil
}

func (s *stubSessions) Close(string) {}

func (s *stubSessions) Status(string) (*ports.LiveStatus, error) {
	return s.status, s.statusErr
}

func (s *stubSessions) Notifications(string) ([]domain.Notification, error) {
	return s.notifications, nil
}

type stubCatalog struct {
	body      json.RawMessage
	loggedOut bool
	err       error
}

func (s *stubCatalog) raw(v string) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(v), nil
}

func (s *stubCatalog) Bestsellers(context.Context, string) (json.RawMessage, error) {
	return s.raw(`[{"id":1,"title":"Dune"}]`)
}
func (s *stubCatalog) BorrowBooks(context.Context, string) (json.RawMessage, error) {
	return s.raw(`[]`)
}
func (s *stubCatalog) BorrowBook(_ context.Context, _, id string) (json.RawMessage, error) {
	return s.raw(`{"id":"` + id + `"}`)
}
func (s *stubCatalog) PurchaseBooks(context.Context, string) (json.RawMessage, error) {
	return s.raw(`[]`)
}
func (s *stubCatalog) PurchaseBook(_ context.Context, _, id string) (json.RawMessage, error) {
	return s.raw(`{"id":"` + id + `"}`)
}
func (s *stubCatalog) BooksByInterests(context.Context, string) (json.RawMessage, error) {
	return s.raw(`[]`)
}
func (s *stubCatalog) Settings(context.Context, string) (json.RawMessage, error) {
	return s.raw(`{}`)
}
func (s *stubCatalog) UpdateSettings(_ context.Context, _ string, body json.RawMessage) (json.RawMessage, error) {
	s.body = body
	return s.raw(string(body))
}
func (s *stubCatalog) Users(context.Context, string) (json.RawMessage, error) {
	return s.raw(`[]`)
}
func (s *stubCatalog) Interests(context.Context, string) (json.RawMessage, error) {
	return s.raw(`[]`)
}
func (s *stubCatalog) SaveInterests(_ context.Context, _ string, body json.RawMessage) (json.RawMessage, error) {
	s.body = body
	return s.raw(`{"saved":true}`)
}
func (s *stubCatalog) VerifyEmail(_ context.Context, body json.RawMessage) (json.RawMessage, error) {
	s.body = body
	return s.raw(`{"verified":true}`)
}
func (s *stubCatalog) Logout(context.Context, string) error {
	s.loggedOut = true
	return s.err
}

type stubOrders struct {
	items      []domain.Record
	collection string
}

func (s *stubOrders) List(_ context.Context, _, collection string) ([]domain.Record, error) {
	s.collection = collection
	return s.items, nil
}

// newCtx builds an echo context as the Auth middleware leaves it.
func newCtx(method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(middleware.KeyToken, "tok")
		c.Set(middleware.KeyIdentity, identity)
		c.Set(middleware.KeyRole, identity.Role)
	}
	return c, rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
}
