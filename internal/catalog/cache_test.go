package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/fixly-labs/backend-fixly/internal/catalog"
)

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := catalog.NewCache(client, time.Minute)
	ctx := context.Background()

	brands := []catalog.Brand{
		{ID: "apple", DeviceTypeID: "mobile", Name: "Apple"},
		{ID: "samsung", DeviceTypeID: "mobile", Name: "Samsung"},
	}
	require.NoError(t, cache.SetJSON(ctx, "catalog:brands:mobile", brands))

	var got []catalog.Brand
	ok, err := cache.GetJSON(ctx, "catalog:brands:mobile", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, brands, got)

	ok, err = cache.GetJSON(ctx, "catalog:brands:laptop", &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCacheEntriesExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := catalog.NewCache(client, time.Second)
	ctx := context.Background()
	require.NoError(t, cache.SetJSON(ctx, "catalog:device-types", []catalog.DeviceType{{ID: "mobile", Name: "Mobile"}}))

	mr.FastForward(2 * time.Second)

	var got []catalog.DeviceType
	ok, err := cache.GetJSON(ctx, "catalog:device-types", &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNilCacheIsNoOp(t *testing.T) {
	var cache *catalog.Cache
	ctx := context.Background()
	require.NoError(t, cache.SetJSON(ctx, "k", "v"))
	var out string
	ok, err := cache.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestServiceServesFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	src := newRepairSource()
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Source: src,
		Cache:  catalog.NewCache(client, time.Minute),
	})
	require.NoError(t, err)
	ctx := context.Background()

	first, err := svc.BrandsForType(ctx, "mobile")
	require.NoError(t, err)
	require.Len(t, first, 2)

	// The source can now fail; the cached list still answers.
	src.brandsErr = context.DeadlineExceeded
	second, err := svc.BrandsForType(ctx, "mobile")
	require.NoError(t, err)
	require.Equal(t, first, second)
}
