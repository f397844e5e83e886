package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
)

func TestSiteEvent_MarshalJSON(t *testing.T) {
	t.Parallel()

	event := events.SiteEvent{
		EventID:   uuid.MustParse("550e8400-e29b-41d4-a716-446655440001"),
		EventType: events.ContactStatusChanged,
		Entity:    events.EntityContact,
		EntityID:  uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Timestamp: time.Date(2026, 1, 29, 10, 30, 0, 0, time.UTC),
		Payload:   events.ContactStatusPayload{Previous: "new", Current: "in_progress"},
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "CONTACT_STATUS_CHANGED", decoded["event_type"])
	assert.Equal(t, "contact_submission", decoded["entity"])
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", decoded["entity_id"])
	assert.Equal(t, "2026-01-29T10:30:00Z", decoded["timestamp"])

	payload, ok := decoded["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "in_progress", payload["current"])
}
