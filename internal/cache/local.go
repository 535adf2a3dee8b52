package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	data     []byte
	expireAt time.Time
}

func (e *entry) expired() bool {
	return !e.expireAt.IsZero() && time.Now().After(e.expireAt)
}

// LocalCache is an in-process cache implementing Cache.
type LocalCache struct {
	kv     sync.Map // key → *entry
	stopGC chan struct{}
	once   sync.Once
}

// NewLocal creates a LocalCache and starts the background GC goroutine.
func NewLocal(gcInterval time.Duration) *LocalCache {
	if gcInterval <= 0 {
		gcInterval = 30 * time.Second
	}
	c := &LocalCache{stopGC: make(chan struct{})}
	go c.runGC(gcInterval)
	return c
}

// Close stops the background GC goroutine.
func (c *LocalCache) Close() {
	c.once.Do(func() { close(c.stopGC) })
}

func (c *LocalCache) runGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.kv.Range(func(k, v interface{}) bool {
				if v.(*entry).expired() {
					c.kv.Delete(k)
				}
				return true
			})
		case <-c.stopGC:
			return
		}
	}
}

func (c *LocalCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.kv.Load(key)
	if !ok {
		return nil, ErrMiss
	}
	e := v.(*entry)
	if e.expired() {
		c.kv.Delete(key)
		return nil, ErrMiss
	}
	return e.data, nil
}

func (c *LocalCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := &entry{data: value}
	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}
	c.kv.Store(key, e)
	return nil
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.kv.Delete(k)
	}
	return nil
}

func (c *LocalCache) DelPrefix(_ context.Context, prefix string) error {
	c.kv.Range(func(k, _ interface{}) bool {
		if strings.HasPrefix(k.(string), prefix) {
			c.kv.Delete(k)
		}
		return true
	})
	return nil
}
