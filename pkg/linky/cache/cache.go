// Package cache provides an optional Redis cache-aside layer. A Cache without
// a Redis client (or a nil *Cache) is a no-op, so callers never branch on
// whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mikepea/linky/pkg/linky/logging"
	"github.com/mikepea/linky/pkg/linky/metrics"
	"github.com/redis/go-redis/v9"
)

// RankedLinksKey holds the ranked link list served by GET /api/links.
const RankedLinksKey = "linky:links:ranked"

// errStale means key was invalidated while its value was being built.
var errStale = errors.New("cache entry invalidated during fetch")

// generationKey counts invalidations of key. CacheAside only stores a value
// if the count did not move while fetching it.
func generationKey(key string) string {
	return key + ":gen"
}

// Cache wraps a Redis client with JSON helpers
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps client; a nil client disables caching
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Connect dials Redis at addr (host:port or redis:// URL). An empty addr, or a
// server that does not answer, yields a disabled cache.
func Connect(ctx context.Context, addr string, ttl time.Duration) *Cache {
	if addr == "" {
		logging.Logger.Info("Redis not configured, caching disabled")
		return New(nil, ttl)
	}

	opts, err := parseAddr(addr)
	if err != nil {
		logging.Logger.Warn("invalid REDIS_URL, caching disabled", slog.String("error", err.Error()))
		return New(nil, ttl)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logging.Logger.Warn("Redis connection failed, continuing without cache", slog.String("error", err.Error()))
		_ = client.Close()
		return New(nil, ttl)
	}

	logging.Logger.Info("Redis connected", slog.String("addr", opts.Addr))
	return New(client, ttl)
}

func parseAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", addr, err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr}, nil
}

// Enabled reports whether a Redis client is attached
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON loads key into dest. It returns false when caching is disabled or
// the key is absent.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	s, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v under key for the cache TTL
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, c.ttl).Err()
}

// Invalidate deletes keys. Failures are logged; a stale entry expires with its TTL.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, key := range keys {
			pipe.Incr(ctx, generationKey(key))
		}
		return nil
	})
	if err != nil {
		logging.Logger.WarnContext(ctx, "cache invalidation failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
	}
}

// CacheAside serves key from Redis when present; otherwise fetch fills dest
// and the result is stored. Redis errors fall through to fetch.
func (c *Cache) CacheAside(ctx context.Context, key string, dest any, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		metrics.CacheRequests.WithLabelValues("error").Inc()
		logging.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	case found:
		metrics.CacheRequests.WithLabelValues("hit").Inc()
		return nil
	case c.Enabled():
		metrics.CacheRequests.WithLabelValues("miss").Inc()
	}

	// read before fetch so an invalidation during fetch is noticed
	gen, genErr := c.generation(ctx, key)

	if err := fetch(); err != nil {
		return err
	}

	if !c.Enabled() || genErr != nil {
		return nil
	}
	err = c.setIfCurrent(ctx, key, gen, dest)
	switch {
	case errors.Is(err, errStale):
		metrics.CacheRequests.WithLabelValues("stale").Inc()
		logging.Logger.DebugContext(ctx, "cache write skipped", slog.String("key", key))
	case err != nil:
		logging.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

func (c *Cache) generation(ctx context.Context, key string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	n, err := c.client.Get(ctx, generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// setIfCurrent stores v under key unless key's generation has moved past gen.
func (c *Cache) setIfCurrent(ctx context.Context, key string, gen int64, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	genKey := generationKey(key)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return errStale
	}
	return err
}

// Close releases the Redis client
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
