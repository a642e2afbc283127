package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/pkg/config"
)

func newTestCache(t *testing.T, ttl time.Duration) (*NearbyCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewNearbyCache(client, ttl), mr
}

func TestNearbyCache_MissDevuelveFalse(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	got, ok, err := c.Get(context.Background(), "nada")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestNearbyCache_SetYGet(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	in := []dto.NearbyResultDTO{{
		ShopID: "s1", ShopName: "Rivoli", ProductID: "p1", ProductName: "iPhone 13",
		Price: decimal.RequireFromString("899.90"), Quantity: 3, DistanceMeters: 1234.5, DistanceKm: 1.23,
	}}
	require.NoError(t, c.Set(ctx, "k", in))
	assert.True(t, mr.Exists(keyPrefix+"k"))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "Rivoli", got[0].ShopName)
	assert.True(t, in[0].Price.Equal(got[0].Price))
	assert.Equal(t, 1.23, got[0].DistanceKm)
}

func TestNearbyCache_ListaVaciaEsHit(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "vacio", nil))
	got, ok, err := c.Get(ctx, "vacio")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestNearbyCache_ExpiraConTTL(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []dto.NearbyResultDTO{{ShopID: "s1"}}))
	mr.FastForward(31 * time.Second)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNearbyCache_ValorCorruptoEsError(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(keyPrefix+"k", "{no-json"))
	_, ok, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient_PingContraMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	_ = client.Close()

	_, err = NewRedisClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
