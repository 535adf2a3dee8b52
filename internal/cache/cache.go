// Package cache is the read cache in front of listing and detail endpoints.
// It is best effort: failures are counted and the caller falls back to the database.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrMiss is returned when a key does not exist.
var ErrMiss = errors.New("cache: key not found")

// Key prefixes. Invalidation drops whole prefixes.
const (
	UsersPrefix  = "users:"
	FilmsPrefix  = "films:"
	LookupPrefix = "lookup:"
)

// FilmKey is the key of a single film's detail.
func FilmKey(id uint) string {
	return fmt.Sprintf("film:%d", id)
}

// Cache stores opaque values under string keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DelPrefix(ctx context.Context, prefix string) error
}

// Config holds configuration for both Redis and the local cache.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	GCInterval    time.Duration
}

// New returns a Redis backed cache if RedisAddr is set, otherwise an
// in-process one. An unreachable Redis falls back to the local cache.
func New(cfg Config, log *zap.Logger) Cache {
	if cfg.RedisAddr != "" {
		c, err := NewRedis(RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, log)
		if err == nil {
			log.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
			return c
		}
		log.Warn("redis unavailable, using local cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	return NewLocal(cfg.GCInterval)
}
