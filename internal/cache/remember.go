package cache

import (
	"context"
	"errors"
	"time"

	"filmsocial/backend/internal/metrics"

	"github.com/goccy/go-json"
)

// Remember returns the value cached under key, or the result of load, which is then cached.
// Cache failures never fail the call; load errors are returned uncached.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	if data, err := c.Get(ctx, key); err == nil {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			return value, nil
		}
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
	} else if errors.Is(err, ErrMiss) {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	} else {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if data, err := json.Marshal(value); err == nil {
		_ = c.Set(ctx, key, data, ttl)
	}
	return value, nil
}
