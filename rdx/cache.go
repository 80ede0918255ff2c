package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"aventra/logger"
	"aventra/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	itineraryKeyPrefix = "itinerary:"
	previewsKeyPrefix  = "itineraries:user:"
)

func ItineraryKey(tripID string) string { return itineraryKeyPrefix + tripID }

func PreviewsKey(userID string) string { return previewsKeyPrefix + userID }

// ItineraryCache keeps assembled itineraries and per-user previews as JSON.
// Redis errors are logged and treated as misses.
type ItineraryCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewItineraryCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *ItineraryCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItineraryCache{client: client, ttl: ttl, log: log}
}

func (c *ItineraryCache) GetItinerary(ctx context.Context, tripID string) (*models.GeneratedItinerary, bool) {
	var it models.GeneratedItinerary
	if !c.get(ctx, ItineraryKey(tripID), &it) {
		return nil, false
	}
	return &it, true
}

func (c *ItineraryCache) SetItinerary(ctx context.Context, it *models.GeneratedItinerary) {
	if it == nil || it.ID == "" {
		return
	}
	c.set(ctx, ItineraryKey(it.ID), it)
}

func (c *ItineraryCache) GetPreviews(ctx context.Context, userID string) ([]models.ItineraryPreview, bool) {
	var previews []models.ItineraryPreview
	if !c.get(ctx, PreviewsKey(userID), &previews) {
		return nil, false
	}
	return previews, true
}

func (c *ItineraryCache) SetPreviews(ctx context.Context, userID string, previews []models.ItineraryPreview) {
	if previews == nil {
		previews = []models.ItineraryPreview{}
	}
	c.set(ctx, PreviewsKey(userID), previews)
}

// Invalidate drops the trip entry and the user's preview list. A blank
// tripID drops only the previews.
func (c *ItineraryCache) Invalidate(ctx context.Context, tripID, userID string) {
	var keys []string
	if tripID != "" {
		keys = append(keys, ItineraryKey(tripID))
	}
	if userID != "" {
		keys = append(keys, PreviewsKey(userID))
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.WithContext(ctx, c.log).Warn("redis invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (c *ItineraryCache) get(ctx context.Context, key string, dst any) bool {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithContext(ctx, c.log).Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		logger.WithContext(ctx, c.log).Warn("dropping unreadable cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return false
	}
	return true
}

func (c *ItineraryCache) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.WithContext(ctx, c.log).Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.WithContext(ctx, c.log).Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}
