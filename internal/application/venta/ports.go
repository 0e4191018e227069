package venta

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss clave ausente en la cache.
var ErrCacheMiss = errors.New("cache: clave no encontrada")

// Cache puerto de cache para lecturas de stock. La corrección nunca depende
// de la cache: las escrituras de stock invalidan la clave y las consultas la
// repueblan (read-through con TTL).
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
