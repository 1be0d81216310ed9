package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Expiry(t *testing.T) {
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", 1, time.Minute)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)

	c.evictExpired()
	assert.Empty(t, c.entries)
}

func TestCache_InvalidateByPrefix(t *testing.T) {
	c := New()
	c.Set(PaymentStatsKey(), "stats", time.Minute)
	c.Set(MonthlyRevenueKey(12), "revenue", time.Minute)
	c.Set("contracts:stats", "other", time.Minute)

	c.InvalidateByPrefix(PaymentsPrefix)

	_, ok := c.Get(PaymentStatsKey())
	assert.False(t, ok)
	_, ok = c.Get(MonthlyRevenueKey(12))
	assert.False(t, ok)
	_, ok = c.Get("contracts:stats")
	assert.True(t, ok)
}

func TestCache_GetOrSet(t *testing.T) {
	c := New()
	calls := 0
	load := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	v, err := c.GetOrSet(context.Background(), "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = c.GetOrSet(context.Background(), "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, calls)

	_, err = c.GetOrSet(context.Background(), "bad", time.Minute, func(context.Context) (any, error) {
		return nil, errors.New("db down")
	})
	assert.Error(t, err)
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestCache_GetOrSet_InvalidatedDuringLoad(t *testing.T) {
	c := New()
	ctx := context.Background()

	// запись в реестр проходит, пока агрегат ещё считается
	v, err := c.GetOrSet(ctx, PaymentStatsKey(), time.Minute, func(context.Context) (any, error) {
		c.InvalidateByPrefix(PaymentsPrefix)
		return "stale", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", v)

	_, ok := c.Get(PaymentStatsKey())
	assert.False(t, ok)

	v, err = c.GetOrSet(ctx, PaymentStatsKey(), time.Minute, func(context.Context) (any, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	cached, ok := c.Get(PaymentStatsKey())
	assert.True(t, ok)
	assert.Equal(t, "fresh", cached)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "payments:stats", PaymentStatsKey())
	assert.Equal(t, "payments:revenue:6", MonthlyRevenueKey(6))
}
