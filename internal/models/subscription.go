package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus is the state of a newsletter subscriber.
type SubscriptionStatus string

const (
	SubscriptionActive       SubscriptionStatus = "active"
	SubscriptionUnsubscribed SubscriptionStatus = "unsubscribed"
)

// Subscription is a newsletter subscriber keyed by normalized email.
type Subscription struct {
	ID             uuid.UUID          `db:"id"              json:"id"`
	Email          string             `db:"email"           json:"email"`
	Name           string             `db:"name"            json:"name"`
	Status         SubscriptionStatus `db:"status"          json:"status"`
	Source         string             `db:"source"          json:"source"`
	SubscribedAt   time.Time          `db:"subscribed_at"   json:"subscribed_at"`
	UnsubscribedAt *time.Time         `db:"unsubscribed_at" json:"unsubscribed_at"`
	CreatedAt      time.Time          `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at"      json:"updated_at"`
}

// SubscribeOutcome says what a subscribe call did.
type SubscribeOutcome string

const (
	SubscribeCreated     SubscribeOutcome = "created"
	SubscribeExisting    SubscribeOutcome = "existing"
	SubscribeReactivated SubscribeOutcome = "reactivated"
)

// SubscribeRequest is the public newsletter signup payload.
type SubscribeRequest struct {
	Email  string `binding:"required"        json:"email"`
	Name   string `binding:"max=255"         json:"name"`
	Source string `binding:"max=100"         json:"source"`
}

// Validate normalizes the email and defaults the source.
func (r *SubscribeRequest) Validate() error {
	email, err := CheckEmail(r.Email)
	if err != nil {
		return err
	}
	r.Email = email
	if r.Source == "" {
		r.Source = "website"
	}
	return nil
}

// UnsubscribeRequest carries a signed unsubscribe link's parameters.
type UnsubscribeRequest struct {
	Email string `binding:"required"         form:"email" json:"email"`
	Token string `binding:"required,max=128" form:"token" json:"token"`
}

// Validate normalizes the email.
func (r *UnsubscribeRequest) Validate() error {
	email, err := CheckEmail(r.Email)
	if err != nil {
		return err
	}
	r.Email = email
	return nil
}

// SubscriptionStats are subscriber counts.
type SubscriptionStats struct {
	Total        int64 `db:"total"        json:"total"`
	Active       int64 `db:"active"       json:"active"`
	Unsubscribed int64 `db:"unsubscribed" json:"unsubscribed"`
	Last30Days   int64 `db:"last_30_days" json:"last_30_days"`
}
