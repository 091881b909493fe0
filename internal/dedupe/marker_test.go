package dedupe

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarker(t *testing.T) (*Marker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client), mr
}

func TestMarkerAcquireOncePerWindow(t *testing.T) {
	marker, _ := newTestMarker(t)
	ctx := context.Background()
	key := marker.Key("user-1", "message", "msg-1")

	acquired, err := marker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = marker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestMarkerExpiresAfterWindow(t *testing.T) {
	marker, mr := newTestMarker(t)
	ctx := context.Background()
	key := marker.Key("user-1", "message", "msg-1")

	acquired, err := marker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(time.Minute + time.Second)

	acquired, err = marker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestMarkerKeysAreScoped(t *testing.T) {
	marker, _ := newTestMarker(t)
	ctx := context.Background()

	keys := []string{
		marker.Key("user-1", "message", "ref-1"),
		marker.Key("user-2", "message", "ref-1"),
		marker.Key("user-1", "blood_offer", "ref-1"),
		marker.Key("user-1", "message", "ref-2"),
	}

	// разные тройки не мешают друг другу
	for _, key := range keys {
		acquired, err := marker.Acquire(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired, "key %s", key)
	}
}

func TestMarkerNewRejectsBadURL(t *testing.T) {
	_, err := New("not-a-redis-url")
	assert.Error(t, err)
}
