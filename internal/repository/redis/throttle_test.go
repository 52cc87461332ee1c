package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWindowThrottle(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)

	client, err := NewClient(ctx, srv.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	throttle := NewFixedWindowThrottle(client, "submissions", 2, time.Minute)

	for i := 0; i < 2; i++ {
		ok, err := throttle.Allow(ctx, "device-a")
		require.NoError(t, err)
		assert.True(t, ok, "hit %d should pass", i+1)
	}
	ok, err := throttle.Allow(ctx, "device-a")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = throttle.Allow(ctx, "device-b")
	require.NoError(t, err)
	assert.True(t, ok, "keys are counted separately")

	assert.Equal(t, time.Minute, srv.TTL("submissions:device-a"))

	srv.FastForward(time.Minute + time.Second)
	ok, err = throttle.Allow(ctx, "device-a")
	require.NoError(t, err)
	assert.True(t, ok, "window expired")
}

func TestFixedWindowThrottleRepairsMissingExpiry(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client, err := NewClient(ctx, srv.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	// counter left over limit without a TTL
	require.NoError(t, srv.Set("submissions:device-c", "9"))

	throttle := NewFixedWindowThrottle(client, "submissions", 2, time.Minute)
	ok, err := throttle.Allow(ctx, "device-c")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, srv.TTL("submissions:device-c"))

	srv.FastForward(time.Minute + time.Second)
	ok, err = throttle.Allow(ctx, "device-c")
	require.NoError(t, err)
	assert.True(t, ok, "stale counter expires")
}

func TestFixedWindowThrottleDisabled(t *testing.T) {
	srv := miniredis.RunT(t)
	client, err := NewClient(context.Background(), srv.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	throttle := NewFixedWindowThrottle(client, "", 0, 0)
	for i := 0; i < 10; i++ {
		ok, err := throttle.Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
