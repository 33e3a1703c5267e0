package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestBlacklist_AddContains(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	bl := NewBlacklist(redis.NewClient(&redis.Options{Addr: m.Addr()}))

	ctx := context.Background()
	token := "access-token-1"
	require.NoError(t, bl.Add(ctx, token, 2*time.Second))

	ok, err := bl.Contains(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)

	// raw token never appears in the keyspace
	require.False(t, m.Exists("blacklist:access:"+token))

	other, err := bl.Contains(ctx, "access-token-2")
	require.NoError(t, err)
	require.False(t, other)

	// advance past TTL
	m.FastForward(3 * time.Second)

	ok2, err := bl.Contains(ctx, token)
	require.NoError(t, err)
	require.False(t, ok2)
}

// Blacklist is a no-op when no Redis client configured
func TestBlacklist_NoClient_Noop(t *testing.T) {
	ctx := context.Background()
	for _, bl := range []*Blacklist{nil, NewBlacklist(nil)} {
		require.NoError(t, bl.Add(ctx, "no-client-token", time.Second))
		ok, err := bl.Contains(ctx, "no-client-token")
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestBlacklist_NonPositiveTTLSkipped(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	bl := NewBlacklist(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	ctx := context.Background()
	require.NoError(t, bl.Add(ctx, "already-expired", 0))
	ok, err := bl.Contains(ctx, "already-expired")
	require.NoError(t, err)
	require.False(t, ok)
}
