package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectMongoWithRetry_InvalidURI(t *testing.T) {
	start := time.Now()
	_, err := ConnectMongoWithRetry(context.Background(), "not-a-mongo-uri", time.Second, 3, 10*time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 3 attempts")
	// 10ms + 20ms of backoff between the three attempts
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestConnectMongoWithRetry_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ConnectMongoWithRetry(ctx, "not-a-mongo-uri", time.Second, 5, time.Hour)
	require.Error(t, err)
}
