// Package events defines the envelope and payloads of site domain events
// written to a Redis stream.
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream for site events.
const StreamName = "site-events"

// MaxStreamLength caps the stream; older entries are trimmed approximately.
const MaxStreamLength = 10000

// EventType represents the type of site event.
type EventType string

const (
	// ContentCreated indicates a content record was created.
	ContentCreated EventType = "CONTENT_CREATED"
	// ContentUpdated indicates a content record was modified.
	ContentUpdated EventType = "CONTENT_UPDATED"
	// ContentDeleted indicates a content record was deleted.
	ContentDeleted EventType = "CONTENT_DELETED"
	// ContactSubmitted indicates a public contact form was stored.
	ContactSubmitted EventType = "CONTACT_SUBMITTED"
	// ContactStatusChanged indicates a contact submission moved in the workflow.
	ContactStatusChanged EventType = "CONTACT_STATUS_CHANGED"
	// Subscribed indicates a newsletter subscription was created or reactivated.
	Subscribed EventType = "SUBSCRIBED"
	// Unsubscribed indicates a subscriber opted out.
	Unsubscribed EventType = "UNSUBSCRIBED"
)

// Entity names carried in the envelope.
const (
	EntityHero         = "hero_section"
	EntityCategory     = "product_category"
	EntityProduct      = "product"
	EntityNews         = "news"
	EntityCareer       = "career"
	EntityOffice       = "office"
	EntityContact      = "contact_submission"
	EntitySubscription = "subscription"
	EntityUser         = "user"
)

// SiteEvent is the envelope for all site events.
type SiteEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	Entity    string    `json:"entity"`
	EntityID  uuid.UUID `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// ContentPayload describes a content change.
type ContentPayload struct {
	Slug  string `json:"slug,omitempty"`
	Title string `json:"title,omitempty"`
	Actor string `json:"actor,omitempty"`
}

// ContactSubmittedPayload describes a new inquiry.
type ContactSubmittedPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	InquiryType string `json:"inquiry_type"`
	Subject     string `json:"subject,omitempty"`
}

// ContactStatusPayload describes a workflow transition.
type ContactStatusPayload struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
	Actor    string `json:"actor,omitempty"`
}

// SubscriptionPayload describes a subscribe or unsubscribe.
type SubscriptionPayload struct {
	Email   string `json:"email"`
	Outcome string `json:"outcome,omitempty"`
	Source  string `json:"source,omitempty"`
}
