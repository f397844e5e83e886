package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/events"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewPublisher_RequiresClient(t *testing.T) {
	t.Parallel()

	assert.Nil(t, events.NewPublisher(nil, logger.NewNop()))
}

func TestPublisher_NilReceiverIsNoOp(t *testing.T) {
	t.Parallel()

	var pub *events.Publisher
	require.NoError(t, pub.Publish(context.Background(), infraevents.SiteEvent{EventType: infraevents.Subscribed}))
	assert.NotPanics(t, func() { pub.PublishAsync(infraevents.SiteEvent{}) })
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	client := newRedis(t)
	pub := events.NewPublisher(client, logger.NewNop())

	id := uuid.New()
	event := events.Content(infraevents.ContentCreated, infraevents.EntityProduct, id,
		infraevents.ContentPayload{Slug: "weather-shield", Title: "Weather Shield"})
	require.NoError(t, pub.Publish(context.Background(), event))

	entries, err := client.XRange(context.Background(), infraevents.StreamName, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "CONTENT_CREATED", entries[0].Values["event_type"])

	raw, ok := entries[0].Values["event"].(string)
	require.True(t, ok)

	var decoded infraevents.SiteEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.NotEqual(t, uuid.Nil, decoded.EventID)
	assert.Equal(t, id, decoded.EntityID)
	assert.Equal(t, infraevents.EntityProduct, decoded.Entity)
	assert.False(t, decoded.Timestamp.IsZero())
}

func TestPublisher_PublishAsync(t *testing.T) {
	t.Parallel()

	client := newRedis(t)
	pub := events.NewPublisher(client, logger.NewNop())

	pub.PublishAsync(infraevents.SiteEvent{
		EventType: infraevents.ContactSubmitted,
		Entity:    infraevents.EntityContact,
		EntityID:  uuid.New(),
	})

	assert.Eventually(t, func() bool {
		n, err := client.XLen(context.Background(), infraevents.StreamName).Result()
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)
}
