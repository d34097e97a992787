//go:build integration

package cache_test

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/agrievents/internal/adapters/cache"
	"github.com/zatekoja/agrievents/internal/infrastructure/clients/redis"
	"github.com/zatekoja/agrievents/pkg/config"
)

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	port, err := strconv.Atoi(os.Getenv("TEST_REDIS_PORT"))
	if err != nil {
		port = 6379
	}
	client, err := redis.NewClient(context.Background(), &config.RedisConfig{
		Host:     os.Getenv("TEST_REDIS_HOST"),
		Port:     port,
		Password: os.Getenv("TEST_REDIS_PASSWORD"),
	})
	require.NoError(t, err, "Failed to create redis client")
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisAdapterRoundTripIntegration(t *testing.T) {
	adapter := cache.NewRedisAdapter(newTestRedisClient(t))
	ctx := context.Background()
	key := "it:cache:" + uuid.NewString()

	_, err := adapter.Get(ctx, key)
	assert.True(t, errors.Is(err, cache.ErrCacheMiss))

	require.NoError(t, adapter.Set(ctx, key, []byte(`{"success":true}`), 30))

	value, err := adapter.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"success":true}`, string(value))

	exists, err := adapter.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, adapter.Delete(ctx, key))
	exists, err = adapter.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisAdapterDeletePatternIntegration(t *testing.T) {
	adapter := cache.NewRedisAdapter(newTestRedisClient(t))
	ctx := context.Background()
	prefix := "it:purge:" + uuid.NewString() + ":"

	for i := 0; i < 5; i++ {
		require.NoError(t, adapter.Set(ctx, prefix+strconv.Itoa(i), []byte("x"), 60))
	}
	keep := "it:keep:" + uuid.NewString()
	require.NoError(t, adapter.Set(ctx, keep, []byte("x"), 60))
	defer adapter.Delete(ctx, keep)

	deleted, err := adapter.DeletePattern(ctx, prefix+"*")
	require.NoError(t, err)
	assert.Equal(t, 5, deleted)

	exists, err := adapter.Exists(ctx, keep)
	require.NoError(t, err)
	assert.True(t, exists)
}
