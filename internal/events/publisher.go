// Package events publishes site domain events to a Redis stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
)

// asyncPublishTimeout is the context timeout for async publish operations.
const asyncPublishTimeout = 5 * time.Second

// Publisher publishes site events to Redis Streams.
type Publisher struct {
	client redis.Cmdable
	log    infralogger.Logger
	now    func() time.Time
}

// NewPublisher creates a new event publisher.
// Returns nil if client is nil.
func NewPublisher(client *redis.Client, log infralogger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{
		client: client,
		log:    log,
		now:    time.Now,
	}
}

// Publish sends an event to the Redis stream.
func (p *Publisher) Publish(ctx context.Context, event infraevents.SiteEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: infraevents.StreamName,
		MaxLen: infraevents.MaxStreamLength,
		Approx: true,
		Values: map[string]any{
			"event_type": string(event.EventType),
			"event":      string(payload),
		},
	})

	if publishErr := result.Err(); publishErr != nil {
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	p.log.Debug("Published site event",
		infralogger.String("event_type", string(event.EventType)),
		infralogger.String("entity", event.Entity),
		infralogger.String("entity_id", event.EntityID.String()),
		infralogger.String("stream_id", result.Val()),
	)

	return nil
}

// PublishAsync publishes an event asynchronously.
// Errors are logged but not returned.
func (p *Publisher) PublishAsync(event infraevents.SiteEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Error("Async publish failed",
				infralogger.String("event_type", string(event.EventType)),
				infralogger.String("entity_id", event.EntityID.String()),
				infralogger.Error(err),
			)
		}
	}()
}

// Content builds a content lifecycle event.
func Content(eventType infraevents.EventType, entity string, id uuid.UUID, payload infraevents.ContentPayload) infraevents.SiteEvent {
	return infraevents.SiteEvent{
		EventType: eventType,
		Entity:    entity,
		EntityID:  id,
		Payload:   payload,
	}
}
