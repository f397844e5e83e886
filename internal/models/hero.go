package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// HeroSection is a homepage banner.
type HeroSection struct {
	ID                uuid.UUID      `db:"id"                  json:"id"`
	Title             string         `db:"title"               json:"title"`
	Subtitle          string         `db:"subtitle"            json:"subtitle"`
	Description       string         `db:"description"         json:"description"`
	Images            pq.StringArray `db:"images"              json:"images"`
	PrimaryCTALabel   string         `db:"primary_cta_label"   json:"primary_cta_label"`
	PrimaryCTAURL     string         `db:"primary_cta_url"     json:"primary_cta_url"`
	SecondaryCTALabel string         `db:"secondary_cta_label" json:"secondary_cta_label"`
	SecondaryCTAURL   string         `db:"secondary_cta_url"   json:"secondary_cta_url"`
	DisplayOrder      int            `db:"display_order"       json:"display_order"`
	IsActive          bool           `db:"is_active"           json:"is_active"`
	CreatedAt         time.Time      `db:"created_at"          json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"          json:"updated_at"`
}

// HeroCreateRequest is the payload for creating a hero section.
type HeroCreateRequest struct {
	Title             string   `binding:"required,min=1,max=255"     json:"title"`
	Subtitle          string   `binding:"max=255"                    json:"subtitle"`
	Description       string   `binding:"max=2000"                   json:"description"`
	Images            []string `binding:"omitempty,max=10,dive,max=1024" json:"images"`
	PrimaryCTALabel   string   `binding:"max=100"                    json:"primary_cta_label"`
	PrimaryCTAURL     string   `binding:"max=1024"                   json:"primary_cta_url"`
	SecondaryCTALabel string   `binding:"max=100"                    json:"secondary_cta_label"`
	SecondaryCTAURL   string   `binding:"max=1024"                   json:"secondary_cta_url"`
	DisplayOrder      *int     `json:"display_order"`
	IsActive          *bool    `json:"is_active"`
}

// Validate checks CTA links and images.
func (r *HeroCreateRequest) Validate() error {
	r.Images = CleanList(r.Images)
	errs := []error{
		ValidateLink("primary_cta_url", r.PrimaryCTAURL),
		ValidateLink("secondary_cta_url", r.SecondaryCTAURL),
	}
	for _, img := range r.Images {
		errs = append(errs, ValidateLink("images", img))
	}
	return errors.Join(errs...)
}

// HeroUpdateRequest is the payload for a partial hero update.
type HeroUpdateRequest struct {
	Title             *string   `binding:"omitempty,min=1,max=255"        json:"title"`
	Subtitle          *string   `binding:"omitempty,max=255"              json:"subtitle"`
	Description       *string   `binding:"omitempty,max=2000"             json:"description"`
	Images            *[]string `binding:"omitempty,max=10,dive,max=1024" json:"images"`
	PrimaryCTALabel   *string   `binding:"omitempty,max=100"              json:"primary_cta_label"`
	PrimaryCTAURL     *string   `binding:"omitempty,max=1024"             json:"primary_cta_url"`
	SecondaryCTALabel *string   `binding:"omitempty,max=100"              json:"secondary_cta_label"`
	SecondaryCTAURL   *string   `binding:"omitempty,max=1024"             json:"secondary_cta_url"`
	DisplayOrder      *int      `json:"display_order"`
	IsActive          *bool     `json:"is_active"`
}

// Validate validates the hero update request
func (r *HeroUpdateRequest) Validate() error {
	if r.Title == nil && r.Subtitle == nil && r.Description == nil && r.Images == nil &&
		r.PrimaryCTALabel == nil && r.PrimaryCTAURL == nil && r.SecondaryCTALabel == nil &&
		r.SecondaryCTAURL == nil && r.DisplayOrder == nil && r.IsActive == nil {
		return ErrNoFieldsToUpdate
	}

	var errs []error
	if r.PrimaryCTAURL != nil {
		errs = append(errs, ValidateLink("primary_cta_url", *r.PrimaryCTAURL))
	}
	if r.SecondaryCTAURL != nil {
		errs = append(errs, ValidateLink("secondary_cta_url", *r.SecondaryCTAURL))
	}
	if r.Images != nil {
		cleaned := CleanList(*r.Images)
		r.Images = &cleaned
		for _, img := range cleaned {
			errs = append(errs, ValidateLink("images", img))
		}
	}
	return errors.Join(errs...)
}
