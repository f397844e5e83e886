package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProductCategory groups products in the catalog.
type ProductCategory struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	Name         string    `db:"name"          json:"name"`
	Slug         string    `db:"slug"          json:"slug"`
	Description  string    `db:"description"   json:"description"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	ProductCount int       `db:"product_count" json:"product_count"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}

// CategoryCreateRequest is the payload for creating a category.
type CategoryCreateRequest struct {
	Name         string  `binding:"required,min=1,max=100" json:"name"`
	Slug         *string `binding:"omitempty,max=120"      json:"slug"`
	Description  string  `binding:"max=2000"               json:"description"`
	DisplayOrder *int    `json:"display_order"`
}

// CategoryUpdateRequest is the payload for a partial category update.
type CategoryUpdateRequest struct {
	Name         *string `binding:"omitempty,min=1,max=100" json:"name"`
	Slug         *string `binding:"omitempty,min=1,max=120" json:"slug"`
	Description  *string `binding:"omitempty,max=2000"      json:"description"`
	DisplayOrder *int    `json:"display_order"`
}

// Validate validates the category update request
func (r *CategoryUpdateRequest) Validate() error {
	if r.Name == nil && r.Slug == nil && r.Description == nil && r.DisplayOrder == nil {
		return ErrNoFieldsToUpdate
	}
	if r.Slug != nil {
		slug := Slugify(*r.Slug)
		r.Slug = &slug
	}
	return nil
}

// Product is a catalog item. Description holds sanitized HTML.
type Product struct {
	ID           uuid.UUID      `db:"id"            json:"id"`
	Name         string         `db:"name"          json:"name"`
	Slug         string         `db:"slug"          json:"slug"`
	CategoryID   *uuid.UUID     `db:"category_id"   json:"category_id"`
	SKU          string         `db:"sku"           json:"sku"`
	Summary      string         `db:"summary"       json:"summary"`
	Description  string         `db:"description"   json:"description"`
	Features     pq.StringArray `db:"features"      json:"features"`
	Applications pq.StringArray `db:"applications"  json:"applications"`
	Finish       string         `db:"finish"        json:"finish"`
	Coverage     string         `db:"coverage"      json:"coverage"`
	Sizes        pq.StringArray `db:"sizes"         json:"sizes"`
	Colors       pq.StringArray `db:"colors"        json:"colors"`
	ImageURL     string         `db:"image_url"     json:"image_url"`
	Gallery      pq.StringArray `db:"gallery"       json:"gallery"`
	DatasheetURL string         `db:"datasheet_url" json:"datasheet_url"`
	IsFeatured   bool           `db:"is_featured"   json:"is_featured"`
	IsActive     bool           `db:"is_active"     json:"is_active"`
	DisplayOrder int            `db:"display_order" json:"display_order"`
	CreatedAt    time.Time      `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"    json:"updated_at"`

	CategoryName *string `db:"category_name" json:"category_name,omitempty"`
	CategorySlug *string `db:"category_slug" json:"category_slug,omitempty"`
}

// ProductCreateRequest is the payload for creating a product.
type ProductCreateRequest struct {
	Name         string     `binding:"required,min=1,max=255"             json:"name"`
	Slug         *string    `binding:"omitempty,max=120"                  json:"slug"`
	CategoryID   *uuid.UUID `json:"category_id"`
	SKU          string     `binding:"max=64"                             json:"sku"`
	Summary      string     `binding:"max=500"                            json:"summary"`
	Description  string     `binding:"max=20000"                          json:"description"`
	Features     []string   `binding:"omitempty,max=50,dive,max=255"      json:"features"`
	Applications []string   `binding:"omitempty,max=50,dive,max=255"      json:"applications"`
	Finish       string     `binding:"max=100"                            json:"finish"`
	Coverage     string     `binding:"max=100"                            json:"coverage"`
	Sizes        []string   `binding:"omitempty,max=20,dive,max=50"       json:"sizes"`
	Colors       []string   `binding:"omitempty,max=100,dive,max=100"     json:"colors"`
	ImageURL     string     `binding:"max=1024"                           json:"image_url"`
	Gallery      []string   `binding:"omitempty,max=20,dive,max=1024"     json:"gallery"`
	DatasheetURL string     `binding:"max=1024"                           json:"datasheet_url"`
	IsFeatured   *bool      `json:"is_featured"`
	IsActive     *bool      `json:"is_active"`
	DisplayOrder *int       `json:"display_order"`
}

// Validate checks links and normalises list fields.
func (r *ProductCreateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Features = CleanList(r.Features)
	r.Applications = CleanList(r.Applications)
	r.Sizes = CleanList(r.Sizes)
	r.Colors = CleanList(r.Colors)
	r.Gallery = CleanList(r.Gallery)

	errs := []error{
		ValidateLink("image_url", r.ImageURL),
		ValidateLink("datasheet_url", r.DatasheetURL),
	}
	for _, img := range r.Gallery {
		errs = append(errs, ValidateLink("gallery", img))
	}
	return errors.Join(errs...)
}

// ProductUpdateRequest is the payload for a partial product update.
// CategoryID "" detaches the product from its category.
type ProductUpdateRequest struct {
	Name         *string   `binding:"omitempty,min=1,max=255"         json:"name"`
	Slug         *string   `binding:"omitempty,min=1,max=120"         json:"slug"`
	CategoryID   *string   `json:"category_id"`
	SKU          *string   `binding:"omitempty,max=64"                json:"sku"`
	Summary      *string   `binding:"omitempty,max=500"               json:"summary"`
	Description  *string   `binding:"omitempty,max=20000"             json:"description"`
	Features     *[]string `binding:"omitempty,max=50,dive,max=255"   json:"features"`
	Applications *[]string `binding:"omitempty,max=50,dive,max=255"   json:"applications"`
	Finish       *string   `binding:"omitempty,max=100"               json:"finish"`
	Coverage     *string   `binding:"omitempty,max=100"               json:"coverage"`
	Sizes        *[]string `binding:"omitempty,max=20,dive,max=50"    json:"sizes"`
	Colors       *[]string `binding:"omitempty,max=100,dive,max=100"  json:"colors"`
	ImageURL     *string   `binding:"omitempty,max=1024"              json:"image_url"`
	Gallery      *[]string `binding:"omitempty,max=20,dive,max=1024"  json:"gallery"`
	DatasheetURL *string   `binding:"omitempty,max=1024"              json:"datasheet_url"`
	IsFeatured   *bool     `json:"is_featured"`
	IsActive     *bool     `json:"is_active"`
	DisplayOrder *int      `json:"display_order"`
}

// Validate validates the product update request
func (r *ProductUpdateRequest) Validate() error {
	if r.Name == nil && r.Slug == nil && r.CategoryID == nil && r.SKU == nil && r.Summary == nil &&
		r.Description == nil && r.Features == nil && r.Applications == nil && r.Finish == nil &&
		r.Coverage == nil && r.Sizes == nil && r.Colors == nil && r.ImageURL == nil &&
		r.Gallery == nil && r.DatasheetURL == nil && r.IsFeatured == nil && r.IsActive == nil &&
		r.DisplayOrder == nil {
		return ErrNoFieldsToUpdate
	}

	var errs []error
	if r.CategoryID != nil && *r.CategoryID != "" {
		if _, err := uuid.Parse(*r.CategoryID); err != nil {
			errs = append(errs, fmt.Errorf("category_id: %w", ErrInvalidUUID))
		}
	}
	if r.Slug != nil {
		slug := Slugify(*r.Slug)
		r.Slug = &slug
	}
	if r.ImageURL != nil {
		errs = append(errs, ValidateLink("image_url", *r.ImageURL))
	}
	if r.DatasheetURL != nil {
		errs = append(errs, ValidateLink("datasheet_url", *r.DatasheetURL))
	}
	for _, list := range []*[]string{r.Features, r.Applications, r.Sizes, r.Colors, r.Gallery} {
		if list != nil {
			*list = CleanList(*list)
		}
	}
	if r.Gallery != nil {
		for _, img := range *r.Gallery {
			errs = append(errs, ValidateLink("gallery", img))
		}
	}
	return errors.Join(errs...)
}

// ProductImportResult reports the outcome of a spreadsheet import.
type ProductImportResult struct {
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Errors  []ImportError `json:"errors"`
}

// ImportError describes one rejected spreadsheet row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}
