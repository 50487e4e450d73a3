//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	return url
}

func dialTestRedis(t *testing.T, ttl time.Duration) *RedisStore {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := DialRedis(ctx, redisURL(t), RedisOptions{
		Prefix: "proptest-test:" + uuid.NewString() + ":",
		TTL:    ttl,
	}, nil)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return dialTestRedis(t, time.Minute) })
}

func TestRedisStoreListPrunesExpired(t *testing.T) {
	ctx := context.Background()
	s := dialTestRedis(t, 100*time.Millisecond)

	require.NoError(t, s.Save(ctx, record("short-lived", 1)))
	time.Sleep(300 * time.Millisecond)

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	members, err := s.client.SMembers(ctx, s.indexKey()).Result()
	require.NoError(t, err)
	assert.Empty(t, members)
}
