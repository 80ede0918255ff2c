package rdx

import (
	"context"
	"testing"
	"time"

	"aventra/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "itinerary:t1", ItineraryKey("t1"))
	assert.Equal(t, "itineraries:user:u1", PreviewsKey("u1"))
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("redis://:secret@cache.internal:6380/2", "")
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", client.Options().Addr)
	assert.Equal(t, "secret", client.Options().Password)
	assert.Equal(t, 2, client.Options().DB)

	client, err = NewClient("localhost:6379", "pw")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", client.Options().Addr)
	assert.Equal(t, "pw", client.Options().Password)

	_, err = NewClient("redis://bad host:xx", "")
	assert.Error(t, err)
}

// Nothing listens on the discard port, so every call fails fast.
func unreachableCache(t *testing.T) (*ItineraryCache, *observer.ObservedLogs) {
	t.Helper()
	client, err := NewClient("127.0.0.1:9", "")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	core, logs := observer.New(zap.WarnLevel)
	return NewItineraryCache(client, time.Minute, zap.New(core)), logs
}

func TestUnreachableRedisIsAMiss(t *testing.T) {
	ctx := context.Background()
	cache, logs := unreachableCache(t)

	cache.SetItinerary(ctx, &models.GeneratedItinerary{ID: "t1"})
	_, ok := cache.GetItinerary(ctx, "t1")
	assert.False(t, ok)
	_, ok = cache.GetPreviews(ctx, "u1")
	assert.False(t, ok)
	cache.Invalidate(ctx, "t1", "u1")

	assert.NotZero(t, logs.FilterMessage("redis get failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("redis set failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("redis invalidate failed").Len())
}

func TestSetItineraryWithoutIDIsSkipped(t *testing.T) {
	cache, logs := unreachableCache(t)
	cache.SetItinerary(context.Background(), &models.GeneratedItinerary{})
	cache.SetItinerary(context.Background(), nil)
	cache.Invalidate(context.Background(), "", "")
	assert.Zero(t, logs.Len())
}
