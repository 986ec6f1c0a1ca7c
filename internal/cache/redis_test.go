package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *RedisCache
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", item{ID: 1}))
	var got item
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "media:7", MediaKey(7))
	assert.Equal(t, "user:42", UserKey(42))
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache("not a url", "", time.Minute)
	assert.Error(t, err)
}

// Runs only when a Redis server is reachable through REDIS_TEST_URL.
func TestRedisCache_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set, skipping Redis integration test")
	}

	c, err := NewRedisCache(url, "", time.Minute)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := "test:" + t.Name()
	require.NoError(t, c.Set(ctx, key, item{ID: 3, Title: "Heat"}))

	var got item
	require.NoError(t, c.Get(ctx, key, &got))
	assert.Equal(t, item{ID: 3, Title: "Heat"}, got)

	require.NoError(t, c.Delete(ctx, key))
	assert.ErrorIs(t, c.Get(ctx, key, &got), ErrMiss)
}
