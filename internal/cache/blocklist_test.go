package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hisaab/internal/config"
)

func TestInMemoryBlocklist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	b := NewInMemoryBlocklist(time.Hour)
	defer b.Close()
	b.now = func() time.Time { return now }

	t.Run("revoked_until_expiry", func(t *testing.T) {
		require.NoError(t, b.Revoke(ctx, "tok-1", now.Add(time.Minute)))

		revoked, err := b.IsRevoked(ctx, "tok-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = b.IsRevoked(ctx, "tok-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("already_expired_is_ignored", func(t *testing.T) {
		require.NoError(t, b.Revoke(ctx, "stale", now.Add(-time.Second)))
		revoked, err := b.IsRevoked(ctx, "stale")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("cleanup_removes_expired", func(t *testing.T) {
		require.NoError(t, b.Revoke(ctx, "short", now.Add(time.Second)))
		before := b.Size()

		now = now.Add(2 * time.Minute)
		b.cleanup()

		assert.Less(t, b.Size(), before)
		revoked, err := b.IsRevoked(ctx, "tok-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}

func TestInMemoryBlocklistCloseIsIdempotent(t *testing.T) {
	b := NewInMemoryBlocklist(time.Millisecond)
	assert.NoError(t, b.Close())
	assert.NoError(t, b.Close())
}

func TestFactoryFallsBackToMemory(t *testing.T) {
	log := zap.NewNop().Sugar()

	bl := NewTokenBlocklist(config.RedisConfig{}, log)
	defer bl.Close()
	_, ok := bl.(*InMemoryBlocklist)
	assert.True(t, ok, "expected in-memory blocklist without an address")

	unreachable := NewTokenBlocklist(config.RedisConfig{Addr: "127.0.0.1:1"}, log)
	defer unreachable.Close()
	_, ok = unreachable.(*InMemoryBlocklist)
	assert.True(t, ok, "expected fallback when Redis is unreachable")
}

// TestRedisBlocklist runs against a real server when TEST_REDIS_ADDR is set.
func TestRedisBlocklist(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	b := NewRedisBlocklistWithClient(client, "hisaab:test:revoked:")
	defer b.Close()

	require.NoError(t, b.Revoke(ctx, "tok-redis", time.Now().Add(time.Minute)))
	defer client.Del(ctx, "hisaab:test:revoked:tok-redis")

	revoked, err := b.IsRevoked(ctx, "tok-redis")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = b.IsRevoked(ctx, "never-revoked")
	require.NoError(t, err)
	assert.False(t, revoked)
}
