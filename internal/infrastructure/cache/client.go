// Package cache adaptador Redis para el puerto de cache de la aplicación.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tu-usuario/consignado-api/internal/application/venta"
	"github.com/tu-usuario/consignado-api/pkg/config"
)

var _ venta.Cache = (*RedisClient)(nil)

// RedisClient implementación del puerto de cache sobre Redis. Los valores se
// serializan como JSON.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient crea el cliente y verifica la conexión con un PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return &RedisClient{rdb: rdb}, nil
}

// Get recupera y deserializa el valor de una clave. Clave ausente devuelve
// venta.ErrCacheMiss.
func (c *RedisClient) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return venta.ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set serializa y guarda un valor con TTL.
func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// Delete remueve una clave (no es error si no existe).
func (c *RedisClient) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Close cierra la conexión.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
