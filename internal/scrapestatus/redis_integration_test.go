//go:build integration

package scrapestatus

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestTracker(t *testing.T) *RedisTracker {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	r, err := NewRedisTracker(context.Background(), RedisOptions{
		Addr:   addr,
		TTL:    time.Minute,
		Prefix: "test:" + uuid.NewString() + ":",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedisTracker_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r := newRedisTestTracker(t)
	now := time.Now()
	r.now = func() time.Time { return now }

	st, err := r.Status(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, Inactive, st)

	require.NoError(t, r.Start(ctx, "acme"))
	assert.ErrorIs(t, r.Start(ctx, "acme"), ErrAlreadyActive)

	now = now.Add(time.Minute)
	st, err = r.Status(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, TimedOut, st)

	require.NoError(t, r.Start(ctx, "acme"))
	st, _ = r.Status(ctx, "acme")
	assert.Equal(t, Active, st)

	require.NoError(t, r.Clear(ctx, "acme"))
	st, _ = r.Status(ctx, "acme")
	assert.Equal(t, Inactive, st)
}

func TestRedisTracker_KeyExpiry(t *testing.T) {
	ctx := context.Background()
	r := newRedisTestTracker(t)

	require.NoError(t, r.Start(ctx, "acme"))

	ttl, err := r.client.TTL(ctx, r.key("acme")).Result()
	require.NoError(t, err)
	assert.InDelta(t, (2 * time.Minute).Seconds(), ttl.Seconds(), 2)
}
