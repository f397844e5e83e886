// Package sse fans live notifications out to admin dashboard sessions over
// Server-Sent Events.
package sse

import (
	"context"
	"errors"
	"time"
)

// ErrTooManyClients is returned by Subscribe when the broker is full.
var ErrTooManyClients = errors.New("too many SSE clients")

// Event is one Server-Sent Event, written as
// "event: <Type>\nid: <ID>\ndata: <JSON>\n\n".
type Event struct {
	Type  string `json:"type"`
	Data  any    `json:"data"`
	ID    string `json:"id,omitempty"`
	Retry int    `json:"retry,omitempty"`
}

// Publisher sends events to every connected client.
type Publisher interface {
	// Publish queues event for broadcast. It fails when the queue is full.
	Publish(ctx context.Context, event Event) error
}

// Subscriber hands out event streams.
type Subscriber interface {
	// Subscribe returns a channel of events and a cleanup func. The channel
	// is closed when ctx ends, the client is too slow, or the broker stops.
	Subscribe(ctx context.Context, opts ...ClientOption) (<-chan Event, func(), error)
}

// Broker manages SSE clients and event distribution.
type Broker interface {
	Publisher
	Subscriber
	Start(ctx context.Context) error
	Stop() error
	ClientCount() int
	HeartbeatInterval() time.Duration
}

// EventFilter reports whether a client wants event.
type EventFilter func(event Event) bool

// ClientOptions configures one subscription.
type ClientOptions struct {
	Filter     EventFilter
	BufferSize int
}

// Event types pushed to the admin dashboard.
const (
	EventTypeContactNew      = "contact:new"
	EventTypeContactUpdated  = "contact:updated"
	EventTypeSubscriptionNew = "subscription:new"
	EventTypeContentChanged  = "content:changed"
	EventTypeSchedulerRun    = "scheduler:run"
)

const (
	eventTypeConnected = "connected"
)

// ContactNewData is the payload of contact:new.
type ContactNewData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject,omitempty"`
	InquiryType string `json:"inquiry_type"`
	Timestamp   string `json:"timestamp"`
}

// ContactUpdatedData is the payload of contact:updated.
type ContactUpdatedData struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status"`
	Priority       string `json:"priority"`
	Timestamp      string `json:"timestamp"`
}

// SubscriptionData is the payload of subscription:new.
type SubscriptionData struct {
	Email       string `json:"email"`
	Reactivated bool   `json:"reactivated"`
	Timestamp   string `json:"timestamp"`
}

// ContentChangedData is the payload of content:changed.
type ContentChangedData struct {
	Entity    string `json:"entity"`
	ID        string `json:"id"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// ScheduledRunData is the payload of scheduler:run.
type ScheduledRunData struct {
	Job       string `json:"job"`
	Affected  int64  `json:"affected"`
	Timestamp string `json:"timestamp"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NewContactEvent builds a contact:new event.
func NewContactEvent(id, name, email, subject, inquiryType string) Event {
	return Event{
		Type: EventTypeContactNew,
		ID:   id,
		Data: ContactNewData{
			ID:          id,
			Name:        name,
			Email:       email,
			Subject:     subject,
			InquiryType: inquiryType,
			Timestamp:   now(),
		},
	}
}

// NewContactUpdatedEvent builds a contact:updated event.
func NewContactUpdatedEvent(id, status, previousStatus, priority string) Event {
	return Event{
		Type: EventTypeContactUpdated,
		ID:   id,
		Data: ContactUpdatedData{
			ID:             id,
			Status:         status,
			PreviousStatus: previousStatus,
			Priority:       priority,
			Timestamp:      now(),
		},
	}
}

// NewSubscriptionEvent builds a subscription:new event.
func NewSubscriptionEvent(email string, reactivated bool) Event {
	return Event{
		Type: EventTypeSubscriptionNew,
		Data: SubscriptionData{Email: email, Reactivated: reactivated, Timestamp: now()},
	}
}

// NewContentChangedEvent builds a content:changed event. action is one of
// created, updated, deleted or published.
func NewContentChangedEvent(entity, id, action string) Event {
	return Event{
		Type: EventTypeContentChanged,
		Data: ContentChangedData{Entity: entity, ID: id, Action: action, Timestamp: now()},
	}
}

// NewScheduledRunEvent builds a scheduler:run event.
func NewScheduledRunEvent(job string, affected int64) Event {
	return Event{
		Type: EventTypeSchedulerRun,
		Data: ScheduledRunData{Job: job, Affected: affected, Timestamp: now()},
	}
}
