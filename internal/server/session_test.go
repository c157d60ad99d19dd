package server

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStore(client, time.Hour)
	ctx := context.Background()

	token, err := store.Issue(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, ok, err := store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(42), userID)

	t.Run("Expiry", func(t *testing.T) {
		mr.FastForward(time.Hour + time.Minute)
		_, ok, err := store.Lookup(ctx, token)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Destroy", func(t *testing.T) {
		token, err := store.Issue(ctx, 7)
		require.NoError(t, err)
		require.NoError(t, store.Destroy(ctx, token))

		_, ok, err := store.Lookup(ctx, token)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Unknown Token", func(t *testing.T) {
		_, ok, err := store.Lookup(ctx, "not-a-token")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	token, err := store.Issue(ctx, 42)
	require.NoError(t, err)

	userID, ok, err := store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(42), userID)

	require.NoError(t, store.Destroy(ctx, token))
	_, ok, err = store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore(-time.Second)

	token, err := store.Issue(context.Background(), 1)
	require.NoError(t, err)

	_, ok, err := store.Lookup(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, ok)
}
