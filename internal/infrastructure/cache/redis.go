// Package cache implementa el cache de resultados de búsqueda por proximidad sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/ports"
	"github.com/jhoicas/eboutique-api/pkg/config"
)

var _ ports.NearbyCache = (*NearbyCache)(nil)

const keyPrefix = "eboutique:"

// NewRedisClient abre la conexión y verifica con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar Redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NearbyCache guarda listas de resultados serializadas en JSON con TTL.
type NearbyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNearbyCache construye el cache. ttl <= 0 usa 60 segundos.
func NewNearbyCache(client *redis.Client, ttl time.Duration) *NearbyCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &NearbyCache{client: client, ttl: ttl}
}

// Get devuelve (nil, false, nil) si la clave no existe o expiró.
func (c *NearbyCache) Get(ctx context.Context, key string) ([]dto.NearbyResultDTO, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var out []dto.NearbyResultDTO
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, fmt.Errorf("decodificar cache %s: %w", key, err)
	}
	return out, true, nil
}

func (c *NearbyCache) Set(ctx context.Context, key string, results []dto.NearbyResultDTO) error {
	if results == nil {
		results = []dto.NearbyResultDTO{}
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("codificar cache: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
