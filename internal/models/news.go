package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// NewsStatus is the editorial state of an article.
type NewsStatus string

const (
	NewsStatusDraft     NewsStatus = "draft"
	NewsStatusScheduled NewsStatus = "scheduled"
	NewsStatusPublished NewsStatus = "published"
	NewsStatusArchived  NewsStatus = "archived"
)

// News is an article. Content holds sanitized HTML.
type News struct {
	ID             uuid.UUID      `db:"id"              json:"id"`
	Title          string         `db:"title"           json:"title"`
	Slug           string         `db:"slug"            json:"slug"`
	Summary        string         `db:"summary"         json:"summary"`
	Content        string         `db:"content"         json:"content"`
	CoverImage     string         `db:"cover_image"     json:"cover_image"`
	Category       string         `db:"category"        json:"category"`
	Tags           pq.StringArray `db:"tags"            json:"tags"`
	AuthorID       *uuid.UUID     `db:"author_id"       json:"author_id"`
	Status         NewsStatus     `db:"status"          json:"status"`
	PublishAt      *time.Time     `db:"publish_at"      json:"publish_at"`
	PublishedAt    *time.Time     `db:"published_at"    json:"published_at"`
	ViewCount      int64          `db:"view_count"      json:"view_count"`
	ReadingMinutes int            `db:"reading_minutes" json:"reading_minutes"`
	CreatedAt      time.Time      `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"      json:"updated_at"`

	AuthorName *string `db:"author_name" json:"author_name,omitempty"`
}

// NewsCreateRequest is the payload for creating an article.
type NewsCreateRequest struct {
	Title      string     `binding:"required,min=1,max=255"                         json:"title"`
	Slug       *string    `binding:"omitempty,max=120"                              json:"slug"`
	Summary    string     `binding:"max=1000"                                       json:"summary"`
	Content    string     `binding:"required,max=200000"                            json:"content"`
	CoverImage string     `binding:"max=1024"                                       json:"cover_image"`
	Category   string     `binding:"max=100"                                        json:"category"`
	Tags       []string   `binding:"omitempty,max=20,dive,max=50"                   json:"tags"`
	Status     NewsStatus `binding:"omitempty,oneof=draft scheduled published archived" json:"status"`
	PublishAt  *time.Time `json:"publish_at"`
}

// Validate defaults the status and enforces the scheduling rule.
func (r *NewsCreateRequest) Validate() error {
	if r.Status == "" {
		r.Status = NewsStatusDraft
	}
	r.Tags = CleanList(r.Tags)
	if r.Status == NewsStatusScheduled && r.PublishAt == nil {
		return ErrPublishAtRequired
	}
	return ValidateLink("cover_image", r.CoverImage)
}

// NewsUpdateRequest is the payload for a partial article update.
type NewsUpdateRequest struct {
	Title      *string     `binding:"omitempty,min=1,max=255"                         json:"title"`
	Slug       *string     `binding:"omitempty,min=1,max=120"                         json:"slug"`
	Summary    *string     `binding:"omitempty,max=1000"                              json:"summary"`
	Content    *string     `binding:"omitempty,max=200000"                            json:"content"`
	CoverImage *string     `binding:"omitempty,max=1024"                              json:"cover_image"`
	Category   *string     `binding:"omitempty,max=100"                               json:"category"`
	Tags       *[]string   `binding:"omitempty,max=20,dive,max=50"                    json:"tags"`
	Status     *NewsStatus `binding:"omitempty,oneof=draft scheduled published archived" json:"status"`
	PublishAt  *time.Time  `json:"publish_at"`
}

// Validate validates the news update request
func (r *NewsUpdateRequest) Validate() error {
	if r.Title == nil && r.Slug == nil && r.Summary == nil && r.Content == nil && r.CoverImage == nil &&
		r.Category == nil && r.Tags == nil && r.Status == nil && r.PublishAt == nil {
		return ErrNoFieldsToUpdate
	}
	if r.Status != nil && *r.Status == NewsStatusScheduled && r.PublishAt == nil {
		return ErrPublishAtRequired
	}
	if r.Slug != nil {
		slug := Slugify(*r.Slug)
		r.Slug = &slug
	}
	if r.Tags != nil {
		tags := CleanList(*r.Tags)
		r.Tags = &tags
	}
	if r.CoverImage != nil {
		return ValidateLink("cover_image", *r.CoverImage)
	}
	return nil
}
