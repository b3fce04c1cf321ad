// Package bookapi is the HTTP client of the Book Nook backend REST API.
package bookapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/booknook/storefront/internal/api/metrics"
	"github.com/booknook/storefront/internal/core/domain"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
	maxErrorBytes  = 4 << 10

	// SessionCookie is the cookie the backend issues the session token in.
	SessionCookie = "token"
)

// APIError is a backend error response not mapped to a domain sentinel.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Config configures the client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the backend on behalf of a session. The session token is
// forwarded both as a bearer token and as the session cookie.
type Client struct {
	base       string
	httpClient *http.Client
}

// NewClient returns a client for cfg.BaseURL. An empty base URL yields a
// client whose every call fails with domain.ErrNotConfigured.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:       strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured base URL without trailing slash.
func (c *Client) BaseURL() string { return c.base }

// ── Auth ──────────────────────────────────────────────────────────────────────

// Me returns the identity behind token. The backend may answer with the user
// object itself or wrapped under "user" or "data".
func (c *Client) Me(ctx context.Context, token string) (*domain.Identity, error) {
	raw, err := c.do(ctx, http.MethodGet, "/auth/me", "/auth/me", token, nil)
	if err != nil {
		return nil, err
	}
	body := unwrap(raw, "user", "data")
	if !body.IsObject() {
		return nil, fmt.Errorf("decode /auth/me: unexpected body")
	}
	var id domain.Identity
	if err := json.Unmarshal([]byte(body.Raw), &id); err != nil {
		return nil, fmt.Errorf("decode /auth/me: %w", err)
	}
	if role, ok := domain.ParseRole(string(id.Role)); ok {
		id.Role = role
	}
	return &id, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", "/auth/logout", token, nil)
	return err
}

func (c *Client) VerifyEmail(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/auth/verify-email", "/auth/verify-email", "", body)
}

// ── Books ─────────────────────────────────────────────────────────────────────

func (c *Client) Bestsellers(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, "/books/bestsellers", token)
}

func (c *Client) BorrowBooks(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, "/books/borrow", token)
}

func (c *Client) BorrowBook(ctx context.Context, token, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/books/borrow/"+url.PathEscape(id), "/books/borrow/:id", token, nil)
}

func (c *Client) PurchaseBooks(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, "/books/purchase", token)
}

func (c *Client) PurchaseBook(ctx context.Context, token, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/books/purchase/"+url.PathEscape(id), "/books/purchase/:id", token, nil)
}

func (c *Client) BooksByInterests(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, "/books/by-interests", token)
}

// ── Settings & administration ─────────────────────────────────────────────────

func (c *Client) Settings(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, "/books/settings", token)
}

func (c *Client) UpdateSettings(ctx context.Context, token string, body json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, "/manager/settings", "/manager/settings", token, body)
}

func (c *Client) Users(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, "/manager/get-all-users", token)
}

// ── Interests ─────────────────────────────────────────────────────────────────

func (c *Client) Interests(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, "/interests", token)
}

func (c *Client) SaveInterests(ctx context.Context, token string, body json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/interests", "/interests", token, body)
}

// ── Collections ───────────────────────────────────────────────────────────────

// Collection lists orders or return orders. A bare array and an array under
// "results" or "data" are both accepted.
func (c *Client) Collection(ctx context.Context, token, name string) ([]domain.Record, error) {
	switch name {
	case domain.CollectionOrders, domain.CollectionReturnOrders:
	default:
		return nil, fmt.Errorf("unknown collection %q: %w", name, domain.ErrNotFound)
	}
	raw, err := c.get(ctx, "/"+name, token)
	if err != nil {
		return nil, err
	}
	list := unwrap(raw, "results", "data")
	if !list.IsArray() {
		return nil, fmt.Errorf("decode /%s: expected a list", name)
	}
	records := []domain.Record{}
	if err := json.Unmarshal([]byte(list.Raw), &records); err != nil {
		return nil, fmt.Errorf("decode /%s: %w", name, err)
	}
	return records, nil
}

// ── Readiness ─────────────────────────────────────────────────────────────────

func (c *Client) Name() string { return "backend" }

// Check reports whether the backend answers at all. Any response below 500,
// authentication failures included, counts as reachable.
func (c *Client) Check(ctx context.Context) error {
	if c.base == "" {
		return domain.ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/auth/me", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return nil
}

// ── Transport ─────────────────────────────────────────────────────────────────

func (c *Client) get(ctx context.Context, path, token string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, path, token, nil)
}

// do sends one request. endpoint is the path template used as metric label.
func (c *Client) do(ctx context.Context, method, path, endpoint, token string, body json.RawMessage) (json.RawMessage, error) {
	if c.base == "" {
		return nil, domain.ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(endpoint, "transport_error", start)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrBackendUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		outcome := "client_error"
		if resp.StatusCode >= http.StatusInternalServerError {
			outcome = "server_error"
		}
		observe(endpoint, outcome, start)
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return nil, statusError(resp.StatusCode, msg)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	observe(endpoint, "ok", start)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %w", domain.ErrBackendUnavailable, method, endpoint, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s %s: response is not json", method, endpoint)
	}
	return raw, nil
}

func statusError(code int, body []byte) error {
	switch code {
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return &APIError{StatusCode: code, Message: errorMessage(body)}
}

// errorMessage extracts "detail", "error" or "message" from a JSON error body,
// falling back to the trimmed text.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		r := gjson.ParseBytes(body)
		for _, k := range []string{"detail", "error", "message"} {
			if v := r.Get(k); v.Type == gjson.String {
				return v.Str
			}
		}
	}
	return strings.TrimSpace(string(body))
}

// unwrap returns the first of the given envelope fields present in raw, or
// raw itself.
func unwrap(raw json.RawMessage, fields ...string) gjson.Result {
	r := gjson.ParseBytes(raw)
	if r.IsObject() {
		for _, f := range fields {
			if v := r.Get(f); v.IsObject() || v.IsArray() {
				return v
			}
		}
	}
	return r
}

func observe(endpoint, outcome string, start time.Time) {
	metrics.BackendRequestDuration.WithLabelValues(endpoint, outcome).Observe(time.Since(start).Seconds())
}

// IsAPIError reports whether err carries a backend status code.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
