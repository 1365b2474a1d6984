package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/itou/backend/internal/infrastructure/auth"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionDenyList(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	denyList := auth.NewRedisSessionDenyList(client)
	ctx := context.Background()

	revoked, err := denyList.IsRevoked(ctx, "session-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denyList.Revoke(ctx, "session-1", time.Hour))

	revoked, err = denyList.IsRevoked(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, time.Hour, mr.TTL("itou:session:revoked:session-1"))

	mr.FastForward(time.Hour + time.Second)
	revoked, err = denyList.IsRevoked(ctx, "session-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	t.Run("expired sessions are not stored", func(t *testing.T) {
		require.NoError(t, denyList.Revoke(ctx, "session-2", 0))
		assert.False(t, mr.Exists("itou:session:revoked:session-2"))
	})

	t.Run("redis down", func(t *testing.T) {
		mr.SetError("ERR server down")
		defer mr.SetError("")

		_, err := denyList.IsRevoked(ctx, "session-1")
		assert.Error(t, err)
	})
}

func TestInMemorySessionDenyList(t *testing.T) {
	denyList := auth.NewInMemorySessionDenyList()
	ctx := context.Background()

	require.NoError(t, denyList.Revoke(ctx, "a", time.Hour))
	require.NoError(t, denyList.Revoke(ctx, "b", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := denyList.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = denyList.IsRevoked(ctx, "b")
	require.NoError(t, err)
	assert.False(t, revoked)
}
