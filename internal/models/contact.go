package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ContactStatus is the workflow state of a contact submission.
type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in_progress"
	ContactStatusResolved   ContactStatus = "resolved"
	ContactStatusClosed     ContactStatus = "closed"
)

// ContactStatuses lists every status in workflow order.
var ContactStatuses = []ContactStatus{
	ContactStatusNew, ContactStatusInProgress, ContactStatusResolved, ContactStatusClosed,
}

var contactTransitions = map[ContactStatus][]ContactStatus{
	ContactStatusNew:        {ContactStatusInProgress, ContactStatusClosed},
	ContactStatusInProgress: {ContactStatusResolved, ContactStatusClosed, ContactStatusNew},
	ContactStatusResolved:   {ContactStatusClosed, ContactStatusInProgress},
	ContactStatusClosed:     nil,
}

// CanTransition reports whether a submission may move from s to next.
// Staying in the same status is always allowed.
func (s ContactStatus) CanTransition(next ContactStatus) bool {
	if s == next {
		return true
	}
	return slices.Contains(contactTransitions[s], next)
}

// Priority orders the admin inbox.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// InquiryType classifies a contact submission.
type InquiryType string

const (
	InquiryGeneral     InquiryType = "general"
	InquiryProduct     InquiryType = "product"
	InquiryQuote       InquiryType = "quote"
	InquirySupport     InquiryType = "support"
	InquiryCareers     InquiryType = "careers"
	InquiryPartnership InquiryType = "partnership"
)

// ContactSubmission is an inquiry from the public contact form.
type ContactSubmission struct {
	ID          uuid.UUID     `db:"id"           json:"id"`
	Name        string        `db:"name"         json:"name"`
	Email       string        `db:"email"        json:"email"`
	Phone       string        `db:"phone"        json:"phone"`
	Company     string        `db:"company"      json:"company"`
	Subject     string        `db:"subject"      json:"subject"`
	Message     string        `db:"message"      json:"message"`
	InquiryType InquiryType   `db:"inquiry_type" json:"inquiry_type"`
	Status      ContactStatus `db:"status"       json:"status"`
	Priority    Priority      `db:"priority"     json:"priority"`
	AssignedTo  *uuid.UUID    `db:"assigned_to"  json:"assigned_to"`
	AdminNotes  string        `db:"admin_notes"  json:"admin_notes"`
	IPAddress   string        `db:"ip_address"   json:"ip_address"`
	UserAgent   string        `db:"user_agent"   json:"user_agent"`
	ResolvedAt  *time.Time    `db:"resolved_at"  json:"resolved_at"`
	ClosedAt    *time.Time    `db:"closed_at"    json:"closed_at"`
	CreatedAt   time.Time     `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"   json:"updated_at"`

	AssigneeName *string `db:"assignee_name" json:"assignee_name,omitempty"`
}

// ContactCreateRequest is the public contact form payload. Website is a
// honeypot that humans never see.
type ContactCreateRequest struct {
	Name        string      `binding:"required,min=1,max=255"                                                 json:"name"`
	Email       string      `binding:"required"                                                               json:"email"`
	Phone       string      `binding:"max=50"                                                                 json:"phone"`
	Company     string      `binding:"max=255"                                                                json:"company"`
	Subject     string      `binding:"max=255"                                                                json:"subject"`
	Message     string      `binding:"required,min=1,max=5000"                                                json:"message"`
	InquiryType InquiryType `binding:"omitempty,oneof=general product quote support careers partnership"      json:"inquiry_type"`
	Website     string      `json:"website"`
}

// Validate fills the default inquiry type and normalizes the email.
func (r *ContactCreateRequest) Validate() error {
	if r.InquiryType == "" {
		r.InquiryType = InquiryGeneral
	}
	email, err := CheckEmail(r.Email)
	if err != nil {
		return err
	}
	r.Email = email
	return nil
}

// IsSpam reports whether the honeypot was filled in.
func (r *ContactCreateRequest) IsSpam() bool {
	return r.Website != ""
}

// ContactUpdateRequest is the admin triage payload. AssignedTo is a user ID;
// an empty string unassigns.
type ContactUpdateRequest struct {
	Status     *ContactStatus `binding:"omitempty,oneof=new in_progress resolved closed" json:"status"`
	Priority   *Priority      `binding:"omitempty,oneof=low normal high urgent"          json:"priority"`
	AssignedTo *string        `json:"assigned_to"`
	AdminNotes *string        `binding:"omitempty,max=10000"                             json:"admin_notes"`
}

// Validate validates the contact update request
func (r *ContactUpdateRequest) Validate() error {
	if r.Status == nil && r.Priority == nil && r.AssignedTo == nil && r.AdminNotes == nil {
		return ErrNoFieldsToUpdate
	}
	if r.AssignedTo != nil && *r.AssignedTo != "" {
		if _, err := uuid.Parse(*r.AssignedTo); err != nil {
			return ErrInvalidUUID
		}
	}
	return nil
}

// AssigneeID returns the parsed assignee. ok is false when the request does
// not touch the assignment; a nil id with ok true unassigns.
func (r *ContactUpdateRequest) AssigneeID() (id *uuid.UUID, ok bool) {
	if r.AssignedTo == nil {
		return nil, false
	}
	if *r.AssignedTo == "" {
		return nil, true
	}
	parsed, err := uuid.Parse(*r.AssignedTo)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

// ContactStats are inbox counts.
type ContactStats struct {
	Total      int64                   `json:"total"`
	ByStatus   map[ContactStatus]int64 `json:"by_status"`
	ByPriority map[Priority]int64      `json:"by_priority"`
}

// NewContactStats returns stats with every known status and priority at zero.
func NewContactStats() *ContactStats {
	stats := &ContactStats{
		ByStatus:   make(map[ContactStatus]int64, len(ContactStatuses)),
		ByPriority: make(map[Priority]int64, len(Priorities)),
	}
	for _, s := range ContactStatuses {
		stats.ByStatus[s] = 0
	}
	for _, p := range Priorities {
		stats.ByPriority[p] = 0
	}
	return stats
}
