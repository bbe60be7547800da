package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/pos-inventory/internal/infrastructure/config"
	apperrors "github.com/xiebiao/pos-inventory/pkg/errors"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	store := NewSessionStore(client)

	t.Run("会话随TTL过期", func(t *testing.T) {
		require.NoError(t, store.SaveSession(ctx, 1, map[string]interface{}{"role": "admin", "ip": "127.0.0.1"}, time.Hour))

		session, err := store.GetSession(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "admin", session["role"])
		assert.Equal(t, time.Hour, mr.TTL("session:1"))

		mr.FastForward(time.Hour + time.Second)
		_, err = store.GetSession(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("删除会话", func(t *testing.T) {
		require.NoError(t, store.SaveSession(ctx, 2, map[string]interface{}{"role": "employee"}, time.Hour))
		require.NoError(t, store.DeleteSession(ctx, 2))
		_, err := store.GetSession(ctx, 2)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("黑名单", func(t *testing.T) {
		ok, err := store.IsInBlacklist(ctx, "token-a")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.AddToBlacklist(ctx, "token-a", time.Minute))
		ok, err = store.IsInBlacklist(ctx, "token-a")
		require.NoError(t, err)
		assert.True(t, ok)

		mr.FastForward(time.Minute + time.Second)
		ok, err = store.IsInBlacklist(ctx, "token-a")
		require.NoError(t, err)
		assert.False(t, ok, "Token自然过期后黑名单也失效")
	})

	t.Run("Redis不可用返回CacheError", func(t *testing.T) {
		mr.SetError("READONLY")
		defer mr.SetError("")

		_, err := store.IsInBlacklist(ctx, "token-b")
		require.Error(t, err)
		assert.Equal(t, "CacheError", apperrors.GetAppError(err).Kind())
	})
}

func TestStatsCache(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	cache := NewStatsCache(client, &config.Config{Redis: config.RedisConfig{StatsTTL: 30 * time.Second}})

	type stats struct {
		Sales int64 `json:"sales"`
	}

	t.Run("未命中", func(t *testing.T) {
		var got stats
		hit, err := cache.Get(ctx, "statistics", &got)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("写入后命中", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "statistics", stats{Sales: 3}))
		assert.Equal(t, 30*time.Second, mr.TTL("stats:statistics"))

		var got stats
		hit, err := cache.Get(ctx, "statistics", &got)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.EqualValues(t, 3, got.Sales)
	})

	t.Run("失效", func(t *testing.T) {
		require.NoError(t, cache.Invalidate(ctx, "statistics"))
		var got stats
		hit, err := cache.Get(ctx, "statistics", &got)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("内容损坏视为未命中", func(t *testing.T) {
		require.NoError(t, mr.Set("stats:statistics", "{not json"))
		var got stats
		hit, err := cache.Get(ctx, "statistics", &got)
		require.NoError(t, err)
		assert.False(t, hit)
	})
}
