package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRedisBlacklist(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	bl := NewRedisBlacklist(client, time.Minute)
	require.NoError(t, bl.Health(ctx))
	token := "token-" + NewID()
	t.Cleanup(func() { client.Del(context.Background(), blacklistKey(token)) })

	ok, err := bl.Contains(ctx, token)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, bl.Add(ctx, token))
	require.NoError(t, bl.Add(ctx, token))

	ok, err = bl.Contains(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)

	ttl, err := client.TTL(ctx, blacklistKey(token)).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
	require.LessOrEqual(t, ttl, time.Minute)
}

func TestBlacklistKeyHidesToken(t *testing.T) {
	t.Parallel()

	key := blacklistKey("secret.jwt.value")
	require.NotContains(t, key, "secret")
	require.Len(t, key, len(keyBlacklist)+64)
	require.Equal(t, key, blacklistKey("secret.jwt.value"))
}
