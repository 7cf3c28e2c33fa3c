package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirinyoku/cinebook/internal/metrics"
	redisx "github.com/kirinyoku/cinebook/internal/redis"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a JSON read-through cache. A nil *Cache is valid and always
// falls through to the loader.
type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

func New(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

// lookup decodes the value under key. A missing key or an undecodable
// value is a miss.
func lookup[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var out T

	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}

	if err := json.Unmarshal(b, &out); err != nil {
		return out, false, nil
	}

	return out, true, nil
}

func store(ctx context.Context, c *Cache, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// GetOrSetJSON returns the cached value under key, or runs loader once per
// key across concurrent callers and caches its result for ttl. Loader errors
// are returned as is and never cached. A Redis failure degrades to the
// loader.
func GetOrSetJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	if c == nil {
		return loader(ctx)
	}

	if v, ok, err := lookup[T](ctx, c, key); err == nil && ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return v, nil
	}

	metrics.CacheLookups.WithLabelValues("miss").Inc()

	res, err, _ := c.sf.Do(key, func() (any, error) {
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		_ = store(ctx, c, key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	v, ok := res.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache %s: unexpected %T", key, res)
	}

	return v, nil
}

// InvalidateSession drops every cached view of the session.
func (c *Cache) InvalidateSession(ctx context.Context, sessionID int64) error {
	if c == nil {
		return nil
	}

	return c.rdb.Del(
		ctx,
		redisx.KeySessionSummary(sessionID),
		redisx.KeySessionAvailability(sessionID),
		redisx.KeySessionSeatMap(sessionID),
	).Err()
}
