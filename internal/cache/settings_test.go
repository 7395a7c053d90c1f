package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pasar/internal/cache"
	"github.com/noah-isme/backend-pasar/internal/pricing"
)

type countingStore struct {
	pricing.Store
	calls  int
	global pricing.GlobalSettings
}

func (c *countingStore) GlobalSettings(context.Context) (pricing.GlobalSettings, error) {
	c.calls++
	return c.global, nil
}

func newSettingsCache(t *testing.T, inner pricing.Store) cache.Settings {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.Settings{Store: inner, R: client, TTL: time.Minute}
}

func TestGlobalSettingsCachedAfterFirstRead(t *testing.T) {
	inner := &countingStore{global: pricing.GlobalSettings{
		DefaultTaxRate:      decimal.NewFromInt(10),
		DefaultShippingCost: decimal.RequireFromString("7.50"),
		ApplyTaxToShipping:  true,
	}}
	c := newSettingsCache(t, inner)
	ctx := context.Background()

	first, err := c.GlobalSettings(ctx)
	require.NoError(t, err)
	second, err := c.GlobalSettings(ctx)
	require.NoError(t, err)

	require.Equal(t, 1, inner.calls)
	require.True(t, second.DefaultTaxRate.Equal(first.DefaultTaxRate))
	require.True(t, second.DefaultShippingCost.Equal(first.DefaultShippingCost))
	require.True(t, second.ApplyTaxToShipping)
}

func TestGlobalSettingsInvalidate(t *testing.T) {
	inner := &countingStore{global: pricing.GlobalSettings{DefaultTaxRate: decimal.NewFromInt(10)}}
	c := newSettingsCache(t, inner)
	ctx := context.Background()

	_, err := c.GlobalSettings(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))
	_, err = c.GlobalSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestGlobalSettingsCorruptEntryFallsThrough(t *testing.T) {
	inner := &countingStore{global: pricing.GlobalSettings{DefaultTaxRate: decimal.NewFromInt(10)}}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, mr.Set("settings:global", "{not json"))

	c := cache.Settings{Store: inner, R: client, TTL: time.Minute}
	got, err := c.GlobalSettings(context.Background())
	require.NoError(t, err)
	require.True(t, got.DefaultTaxRate.Equal(decimal.NewFromInt(10)))
	require.Equal(t, 1, inner.calls)
}

func TestGlobalSettingsWithoutRedisReadsThrough(t *testing.T) {
	inner := &countingStore{global: pricing.GlobalSettings{DefaultTaxRate: decimal.NewFromInt(10)}}
	c := cache.Settings{Store: inner}
	for i := 0; i < 2; i++ {
		_, err := c.GlobalSettings(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, 2, inner.calls)
}
