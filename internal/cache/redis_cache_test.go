package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := redis.RunContainer(ctx,
		testcontainers.WithImage("docker.io/redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestRedisCache(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: startRedis(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	val, err := c.Get(ctx, "code:a1b2c3d4")
	require.NoError(t, err)
	assert.Empty(t, val, "missing key is not an error")

	require.NoError(t, c.Set(ctx, "code:a1b2c3d4", "https://a.test/p", time.Minute))

	val, err = c.Get(ctx, "code:a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, "https://a.test/p", val)

	require.NoError(t, c.Set(ctx, "short-lived", "x", 50*time.Millisecond))
	assert.Eventually(t, func() bool {
		v, err := c.Get(ctx, "short-lived")
		return err == nil && v == ""
	}, 5*time.Second, 50*time.Millisecond)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisOptions{Addr: "127.0.0.1:1"})
	assert.ErrorContains(t, err, "failed to connect to Redis")
}
