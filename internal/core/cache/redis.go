// Package cache is an optional read-through cache in front of the public
// listing queries. A nil *Cache is valid and always loads from the source.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB    *redis.Client
	TTL    time.Duration
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		TTL:    ttl,
		Prefix: "studio",
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.RDB.Close()
}

// GetOrLoad reads key, falling back to load on a miss or a redis error.
// Concurrent misses for the same key share one load.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Bump invalidates every key of namespace ns by moving it to a new
// generation. Old generations expire with their TTL.
func (c *Cache) Bump(ctx context.Context, ns string) {
	if c == nil {
		return
	}
	_ = c.RDB.Incr(ctx, c.genKey(ns)).Err()
}

// Key returns the generation-qualified key for ns and suffix.
func (c *Cache) Key(ctx context.Context, ns, suffix string) string {
	gen, err := c.RDB.Get(ctx, c.genKey(ns)).Int64()
	if err != nil {
		gen = 0
	}
	return fmt.Sprintf("%s:%s:v%d:%s", c.Prefix, ns, gen, suffix)
}

func (c *Cache) genKey(ns string) string { return c.Prefix + ":gen:" + ns }

// GetOrLoadJSON caches the JSON encoding of load's result under ns/suffix.
func GetOrLoadJSON[T any](c *Cache, ctx context.Context, ns, suffix string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	var out T
	b, err := c.GetOrLoad(ctx, c.Key(ctx, ns, suffix), c.TTL, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	if e := json.Unmarshal(b, &out); e != nil {
		return load(ctx)
	}
	return out, nil
}
