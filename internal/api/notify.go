package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/sse"
	"github.com/Hayal27/sininning-pro-sub000/internal/events"
)

// contentChange describes a successful admin write.
type contentChange struct {
	eventType  infraevents.EventType
	entity     string
	id         uuid.UUID
	slug       string
	title      string
	namespaces []string
}

// contentChanged invalidates cached public responses and announces the
// change on the event stream and to connected dashboards.
func (r *Router) contentChanged(c *gin.Context, change contentChange) {
	ctx := c.Request.Context()

	r.cache.Invalidate(ctx, change.namespaces...)

	r.events.PublishAsync(events.Content(change.eventType, change.entity, change.id, infraevents.ContentPayload{
		Slug:  change.slug,
		Title: change.title,
		Actor: actor(c),
	}))

	action := strings.ToLower(strings.TrimPrefix(string(change.eventType), "CONTENT_"))
	r.notify(c, sse.NewContentChangedEvent(change.entity, change.id.String(), action))
}

// notify pushes a dashboard notification. A full broker queue only costs
// the notification.
func (r *Router) notify(c *gin.Context, event sse.Event) {
	if r.broker == nil {
		return
	}
	if err := r.broker.Publish(c.Request.Context(), event); err != nil {
		logger.FromContext(c.Request.Context()).Warn("Failed to publish dashboard event",
			logger.String("event_type", event.Type),
			logger.Error(err),
		)
	}
}
