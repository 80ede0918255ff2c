package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"aventra/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ItineraryChannel carries saved/deleted notifications.
const ItineraryChannel = "itinerary-events"

// Emitter publishes itinerary events to Redis.
type Emitter struct {
	client  *redis.Client
	channel string
}

func NewEmitter(client *redis.Client) *Emitter {
	return &Emitter{client: client, channel: ItineraryChannel}
}

func (e *Emitter) Emit(ctx context.Context, event models.ItineraryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	if err := e.client.Publish(ctx, e.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

// Listen delivers events from the channel to handle until ctx is done.
// Undecodable payloads are logged and skipped.
func Listen(ctx context.Context, client *redis.Client, log *zap.Logger, handle func(context.Context, models.ItineraryEvent)) error {
	sub := client.Subscribe(ctx, ItineraryChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", ItineraryChannel, err)
	}
	log.Info("listening for itinerary events", zap.String("channel", ItineraryChannel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			event, err := Decode(msg.Payload)
			if err != nil {
				log.Warn("failed to parse itinerary event", zap.Error(err))
				continue
			}
			handle(ctx, event)
		}
	}
}

func Decode(payload string) (models.ItineraryEvent, error) {
	var event models.ItineraryEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return models.ItineraryEvent{}, err
	}
	if event.Type == "" || event.TripID == "" {
		return models.ItineraryEvent{}, fmt.Errorf("incomplete itinerary event %q", payload)
	}
	return event, nil
}
