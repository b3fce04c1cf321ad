package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booknook/storefront/internal/core/domain"
)

func rec(t *testing.T, raw string) domain.Record {
	t.Helper()
	var r domain.Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestQueryCache_SetGet(t *testing.T) {
	c := NewQueryCache()

	_, _, ok := c.Get(domain.CollectionOrders)
	assert.False(t, ok)

	c.Set(domain.CollectionOrders, []domain.Record{rec(t, `{"id":1}`)})
	got, fetchedAt, ok := c.Get(domain.CollectionOrders)
	require.True(t, ok)
	assert.Len(t, got, 1)
	assert.False(t, fetchedAt.IsZero())

	// The returned slice is a copy.
	got[0] = rec(t, `{"id":99}`)
	again, _, _ := c.Get(domain.CollectionOrders)
	id, _ := again[0].ID()
	assert.EqualValues(t, 1, id)
}

func TestQueryCache_SetNilStoresEmptyCollection(t *testing.T) {
	c := NewQueryCache()
	c.Set(domain.CollectionReturnOrders, nil)
	got, _, ok := c.Get(domain.CollectionReturnOrders)
	require.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQueryCache_UpdateOnlyTouchesLoadedCollections(t *testing.T) {
	c := NewQueryCache()

	called := false
	ok := c.Update(domain.CollectionOrders, func(r []domain.Record) []domain.Record {
		called = true
		return r
	})
	assert.False(t, ok)
	assert.False(t, called)
	assert.Empty(t, c.Keys())

	c.Set(domain.CollectionOrders, []domain.Record{rec(t, `{"id":1}`)})
	_, before, _ := c.Get(domain.CollectionOrders)
	ok = c.Update(domain.CollectionOrders, func(r []domain.Record) []domain.Record {
		return append([]domain.Record{rec(t, `{"id":7}`)}, r...)
	})
	require.True(t, ok)

	got, after, _ := c.Get(domain.CollectionOrders)
	require.Len(t, got, 2)
	first, _ := got[0].ID()
	assert.EqualValues(t, 7, first)
	assert.Equal(t, before, after, "update keeps the fetched-at stamp")
}

func TestQueryCache_Freshness(t *testing.T) {
	c := NewQueryCache()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	assert.False(t, c.Fresh(domain.CollectionOrders, time.Minute))

	c.Set(domain.CollectionOrders, nil)
	assert.True(t, c.Fresh(domain.CollectionOrders, time.Minute))

	now = now.Add(2 * time.Minute)
	assert.False(t, c.Fresh(domain.CollectionOrders, time.Minute))
	assert.True(t, c.Fresh(domain.CollectionOrders, 0))

	c.Invalidate(domain.CollectionOrders)
	assert.False(t, c.Fresh(domain.CollectionOrders, 0))
}

func TestMemoryIdentityCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryIdentityCache()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	got, err := c.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "tok", &domain.Identity{ID: 3, Role: domain.RoleCourier}, time.Minute))
	got, err = c.Get(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.RoleCourier, got.Role)

	now = now.Add(time.Minute)
	got, err = c.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, got, "entry expires at its ttl")

	require.NoError(t, c.Set(ctx, "tok", &domain.Identity{ID: 3}, time.Minute))
	require.NoError(t, c.Delete(ctx, "tok"))
	got, _ = c.Get(ctx, "tok")
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "tok", &domain.Identity{ID: 3}, 0))
	got, _ = c.Get(ctx, "tok")
	assert.Nil(t, got, "non-positive ttl is not stored")
}
