package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Stock.AlertThreshold)
	assert.True(t, cfg.Stock.ArchiveOnDepletion)
	assert.Equal(t, 10000.0, cfg.Search.DefaultRadiusMeters)
	assert.Equal(t, 5, cfg.Search.DefaultMaxResults)
	assert.False(t, cfg.Search.AllMatchesPerShop)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("STOCK_ALERT_THRESHOLD", "3")
	t.Setenv("STOCK_ARCHIVE_ON_DEPLETION", "false")
	t.Setenv("SEARCH_ALL_MATCHES_PER_SHOP", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_NEARBY_TTL_SECONDS", "30")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Stock.AlertThreshold)
	assert.False(t, cfg.Stock.ArchiveOnDepletion)
	assert.True(t, cfg.Search.AllMatchesPerShop)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.NearbyTTL)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_UmbralNegativoEsError(t *testing.T) {
	t.Setenv("STOCK_ALERT_THRESHOLD", "-1")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "eboutique", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/eboutique?sslmode=disable", c.DSN())
	assert.Equal(t, "postgres://x", DBConfig{DatabaseURL: "postgres://x"}.ConnectionString())
}
