package models

import (
	"time"

	"github.com/google/uuid"
)

// Office is a branch or headquarters location.
type Office struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	Name         string    `db:"name"          json:"name"`
	AddressLine  string    `db:"address_line"  json:"address_line"`
	City         string    `db:"city"          json:"city"`
	Region       string    `db:"region"        json:"region"`
	Country      string    `db:"country"       json:"country"`
	PostalCode   string    `db:"postal_code"   json:"postal_code"`
	Phone        string    `db:"phone"         json:"phone"`
	Email        string    `db:"email"         json:"email"`
	Latitude     *float64  `db:"latitude"      json:"latitude"`
	Longitude    *float64  `db:"longitude"     json:"longitude"`
	OpeningHours string    `db:"opening_hours" json:"opening_hours"`
	MapURL       string    `db:"map_url"       json:"map_url"`
	IsPrimary    bool      `db:"is_primary"    json:"is_primary"`
	IsActive     bool      `db:"is_active"     json:"is_active"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}

// OfficeCreateRequest is the payload for creating an office.
type OfficeCreateRequest struct {
	Name         string   `binding:"required,min=1,max=255"       json:"name"`
	AddressLine  string   `binding:"max=255"                      json:"address_line"`
	City         string   `binding:"required,max=100"             json:"city"`
	Region       string   `binding:"max=100"                      json:"region"`
	Country      string   `binding:"max=100"                      json:"country"`
	PostalCode   string   `binding:"max=20"                       json:"postal_code"`
	Phone        string   `binding:"max=50"                       json:"phone"`
	Email        string   `binding:"omitempty,email,max=255"      json:"email"`
	Latitude     *float64 `binding:"omitempty,min=-90,max=90"     json:"latitude"`
	Longitude    *float64 `binding:"omitempty,min=-180,max=180"   json:"longitude"`
	OpeningHours string   `binding:"max=255"                      json:"opening_hours"`
	MapURL       string   `binding:"max=1024"                     json:"map_url"`
	IsPrimary    bool     `json:"is_primary"`
	IsActive     *bool    `json:"is_active"`
	DisplayOrder *int     `json:"display_order"`
}

// Validate rejects an inactive primary office.
func (r *OfficeCreateRequest) Validate() error {
	if r.IsPrimary && r.IsActive != nil && !*r.IsActive {
		return ErrInactivePrimary
	}
	return ValidateLink("map_url", r.MapURL)
}

// OfficeUpdateRequest is the payload for a partial office update.
type OfficeUpdateRequest struct {
	Name         *string  `binding:"omitempty,min=1,max=255"     json:"name"`
	AddressLine  *string  `binding:"omitempty,max=255"           json:"address_line"`
	City         *string  `binding:"omitempty,min=1,max=100"     json:"city"`
	Region       *string  `binding:"omitempty,max=100"           json:"region"`
	Country      *string  `binding:"omitempty,max=100"           json:"country"`
	PostalCode   *string  `binding:"omitempty,max=20"            json:"postal_code"`
	Phone        *string  `binding:"omitempty,max=50"            json:"phone"`
	Email        *string  `binding:"omitempty,email,max=255"     json:"email"`
	Latitude     *float64 `binding:"omitempty,min=-90,max=90"    json:"latitude"`
	Longitude    *float64 `binding:"omitempty,min=-180,max=180"  json:"longitude"`
	OpeningHours *string  `binding:"omitempty,max=255"           json:"opening_hours"`
	MapURL       *string  `binding:"omitempty,max=1024"          json:"map_url"`
	IsPrimary    *bool    `json:"is_primary"`
	IsActive     *bool    `json:"is_active"`
	DisplayOrder *int     `json:"display_order"`
}

// Validate validates the office update request
func (r *OfficeUpdateRequest) Validate() error {
	if r.Name == nil && r.AddressLine == nil && r.City == nil && r.Region == nil && r.Country == nil &&
		r.PostalCode == nil && r.Phone == nil && r.Email == nil && r.Latitude == nil &&
		r.Longitude == nil && r.OpeningHours == nil && r.MapURL == nil && r.IsPrimary == nil &&
		r.IsActive == nil && r.DisplayOrder == nil {
		return ErrNoFieldsToUpdate
	}
	if r.IsPrimary != nil && *r.IsPrimary && r.IsActive != nil && !*r.IsActive {
		return ErrInactivePrimary
	}
	if r.MapURL != nil {
		return ValidateLink("map_url", *r.MapURL)
	}
	return nil
}
