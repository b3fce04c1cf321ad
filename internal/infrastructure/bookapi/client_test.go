package bookapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booknook/storefront/internal/core/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Timeout: time.Second})
}

func TestClient_MeForwardsTokenAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if ck, err := r.Cookie(SessionCookie); assert.NoError(t, err) {
			assert.Equal(t, "tok", ck.Value)
		}
		_, _ = io.WriteString(w, `{"user":{"id":5,"email":"c@b.test","role":"courier","wallet_balance":3.5,"interests":null}}`)
	})

	id, err := c.Me(context.Background(), "tok")
	require.NoError(t, err)
	assert.EqualValues(t, 5, id.ID)
	assert.Equal(t, domain.RoleCourier, id.Role)
	assert.False(t, id.InterestsConfigured())
}

func TestClient_MeUnwrappedWithInterests(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":1,"email":"a@b.test","role":"CLIENT","interests":[]}`)
	})

	id, err := c.Me(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, id.Role)
	assert.True(t, id.InterestsConfigured())
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusUnauthorized, `{}`, domain.ErrUnauthenticated},
		{http.StatusForbidden, `{}`, domain.ErrForbidden},
		{http.StatusNotFound, `{}`, domain.ErrNotFound},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, tc.body)
		})
		_, err := c.Bestsellers(context.Background(), "tok")
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"detail":"promo code expired"}`)
	})
	_, err := c.UpdateSettings(context.Background(), "tok", json.RawMessage(`{}`))
	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "promo code expired", apiErr.Message)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: base, Timeout: time.Second})
	_, err := c.Interests(context.Background(), "tok")
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.Me(context.Background(), "tok")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.ErrorIs(t, c.Logout(context.Background(), "tok"), domain.ErrNotConfigured)
}

func TestClient_PathsAndBodies(t *testing.T) {
	type call struct{ method, path, body string }
	var got []call
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = append(got, call{r.Method, r.URL.EscapedPath(), string(b)})
		_, _ = io.WriteString(w, `{"ok":true}`)
	})
	ctx := context.Background()

	_, err := c.BorrowBook(ctx, "tok", "42")
	require.NoError(t, err)
	_, err = c.PurchaseBook(ctx, "tok", "a b")
	require.NoError(t, err)
	_, err = c.SaveInterests(ctx, "tok", json.RawMessage(`{"interests":[1,2]}`))
	require.NoError(t, err)
	_, err = c.UpdateSettings(ctx, "tok", json.RawMessage(`{"borrow_days":14}`))
	require.NoError(t, err)
	_, err = c.Users(ctx, "tok")
	require.NoError(t, err)
	_, err = c.VerifyEmail(ctx, json.RawMessage(`{"token":"x"}`))
	require.NoError(t, err)

	assert.Equal(t, []call{
		{http.MethodGet, "/books/borrow/42", ""},
		{http.MethodGet, "/books/purchase/a%20b", ""},
		{http.MethodPost, "/interests", `{"interests":[1,2]}`},
		{http.MethodPatch, "/manager/settings", `{"borrow_days":14}`},
		{http.MethodGet, "/manager/get-all-users", ""},
		{http.MethodPost, "/auth/verify-email", `{"token":"x"}`},
	}, got)
}

func TestClient_CollectionKeepsUnknownFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders":
			_, _ = io.WriteString(w, `[{"id":1,"status":"NEW","items":[{"sku":"b-1"}]}]`)
		case "/return-orders":
			_, _ = io.WriteString(w, `{"results":[{"id":3}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	orders, err := c.Collection(ctx, "tok", domain.CollectionOrders)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.JSONEq(t, `[{"sku":"b-1"}]`, string(orders[0]["items"]))
	assert.Equal(t, "NEW", orders[0].Status())

	returns, err := c.Collection(ctx, "tok", domain.CollectionReturnOrders)
	require.NoError(t, err)
	require.Len(t, returns, 1)

	_, err = c.Collection(ctx, "tok", "wishlist")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestClient_EmptyBodyIsNull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.Logout(context.Background(), "tok"))
}

func TestClient_Check(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	assert.NoError(t, c.Check(context.Background()))
	assert.Equal(t, "backend", c.Name())

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.Error(t, down.Check(context.Background()))

	assert.ErrorIs(t, NewClient(Config{}).Check(context.Background()), domain.ErrNotConfigured)
}
