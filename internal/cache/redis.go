package cache

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// RedisConfig holds Redis connection and breaker settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// FailureThreshold consecutive failures open the breaker for OpenTimeout.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// RedisCache implements Cache on Redis. Calls go through a circuit breaker so
// an unhealthy Redis is skipped quickly instead of slowing every request.
type RedisCache struct {
	client  *goredis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(cfg RedisConfig, log *zap.Logger) (*RedisCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return newRedisCache(client, cfg, log), nil
}

func newRedisCache(client *goredis.Client, cfg RedisConfig, log *zap.Logger) *RedisCache {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("cache circuit breaker state changed",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
	}
	return &RedisCache{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// Close releases the Redis connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	return r.breaker.Execute(func() ([]byte, error) {
		v, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return nil, ErrMiss
		}
		return v, err
	})
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := r.breaker.Execute(func() ([]byte, error) {
		return nil, r.client.Set(ctx, key, value, ttl).Err()
	})
	return err
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.breaker.Execute(func() ([]byte, error) {
		return nil, r.client.Del(ctx, keys...).Err()
	})
	return err
}

// DelPrefix scans for prefix* and deletes every match.
func (r *RedisCache) DelPrefix(ctx context.Context, prefix string) error {
	_, err := r.breaker.Execute(func() ([]byte, error) {
		iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		var batch []string
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == 100 {
				if err := r.client.Del(ctx, batch...).Err(); err != nil {
					return nil, err
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		if len(batch) > 0 {
			return nil, r.client.Del(ctx, batch...).Err()
		}
		return nil, nil
	})
	return err
}
