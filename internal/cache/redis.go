package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"mediahub/internal/metrics"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// RedisCache is a JSON read-through cache for catalog entities.
// A nil *RedisCache is valid and behaves as an always-empty cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at url (redis://[:pass@]host:port/db).
func NewRedisCache(url, password string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: rdb, ttl: ttl}, nil
}

// Get decodes the cached value at key into dst.
func (c *RedisCache) Get(ctx context.Context, key string, dst any) error {
	if c == nil || c.client == nil {
		return ErrMiss
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return ErrMiss
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// a value we cannot decode is as good as absent
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return ErrMiss
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return nil
}

// Set stores v at key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Delete removes keys. Missing keys are ignored.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Key helpers keep the naming scheme in one place.

const (
	MediaListKey = "media:all"
	UserListKey  = "user:all"
)

func MediaKey(id int64) string { return fmt.Sprintf("media:%d", id) }

func UserKey(id int64) string { return fmt.Sprintf("user:%d", id) }
