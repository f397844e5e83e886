package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const heroColumns = `id, title, subtitle, description, images, primary_cta_label, primary_cta_url,
	secondary_cta_label, secondary_cta_url, display_order, is_active, created_at, updated_at`

// HeroRepository stores homepage banners.
type HeroRepository struct {
	db *sqlx.DB
}

// NewHeroRepository creates a HeroRepository.
func NewHeroRepository(db *sqlx.DB) *HeroRepository {
	return &HeroRepository{db: db}
}

// Create inserts a hero section.
func (r *HeroRepository) Create(ctx context.Context, req *models.HeroCreateRequest) (*models.HeroSection, error) {
	now := time.Now()
	hero := &models.HeroSection{
		ID:                uuid.New(),
		Title:             req.Title,
		Subtitle:          req.Subtitle,
		Description:       req.Description,
		Images:            stringArray(req.Images),
		PrimaryCTALabel:   req.PrimaryCTALabel,
		PrimaryCTAURL:     req.PrimaryCTAURL,
		SecondaryCTALabel: req.SecondaryCTALabel,
		SecondaryCTAURL:   req.SecondaryCTAURL,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.DisplayOrder != nil {
		hero.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		hero.IsActive = *req.IsActive
	}

	query := `
		INSERT INTO hero_sections (id, title, subtitle, description, images, primary_cta_label, primary_cta_url,
			secondary_cta_label, secondary_cta_url, display_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + heroColumns

	err := r.db.QueryRowxContext(ctx, query,
		hero.ID, hero.Title, hero.Subtitle, hero.Description, hero.Images,
		hero.PrimaryCTALabel, hero.PrimaryCTAURL, hero.SecondaryCTALabel, hero.SecondaryCTAURL,
		hero.DisplayOrder, hero.IsActive, hero.CreatedAt, hero.UpdatedAt,
	).StructScan(hero)
	if err != nil {
		return nil, mapError(err, "create hero section")
	}
	return hero, nil
}

// GetByID retrieves a hero section by ID
func (r *HeroRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HeroSection, error) {
	hero := &models.HeroSection{}
	query := `SELECT ` + heroColumns + ` FROM hero_sections WHERE id = $1`

	if err := r.db.GetContext(ctx, hero, query, id); err != nil {
		return nil, mapError(err, "get hero section")
	}
	return hero, nil
}

// List returns hero sections in display order. A non-nil active filters on is_active.
func (r *HeroRepository) List(ctx context.Context, active *bool) ([]models.HeroSection, error) {
	var w whereBuilder
	if active != nil {
		w.eq("is_active", *active)
	}

	query := `SELECT ` + heroColumns + ` FROM hero_sections` + w.sql() + ` ORDER BY display_order ASC, created_at ASC`

	heroes := []models.HeroSection{}
	if err := r.db.SelectContext(ctx, &heroes, query, w.args...); err != nil {
		return nil, mapError(err, "list hero sections")
	}
	return heroes, nil
}

// Update applies a partial update.
func (r *HeroRepository) Update(ctx context.Context, id uuid.UUID, req *models.HeroUpdateRequest) (*models.HeroSection, error) {
	updates := make(map[string]any)

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Subtitle != nil {
		updates["subtitle"] = *req.Subtitle
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Images != nil {
		updates["images"] = stringArray(*req.Images)
	}
	if req.PrimaryCTALabel != nil {
		updates["primary_cta_label"] = *req.PrimaryCTALabel
	}
	if req.PrimaryCTAURL != nil {
		updates["primary_cta_url"] = *req.PrimaryCTAURL
	}
	if req.SecondaryCTALabel != nil {
		updates["secondary_cta_label"] = *req.SecondaryCTALabel
	}
	if req.SecondaryCTAURL != nil {
		updates["secondary_cta_url"] = *req.SecondaryCTAURL
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	query, args, err := buildUpdateQuery("hero_sections", id, updates, heroColumns)
	if err != nil {
		return nil, err
	}

	hero := &models.HeroSection{}
	if err = r.db.QueryRowxContext(ctx, query, args...).StructScan(hero); err != nil {
		return nil, mapError(err, "update hero section")
	}
	return hero, nil
}

// Delete removes a hero section.
func (r *HeroRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return execAffected(ctx, r.db, "delete hero section", `DELETE FROM hero_sections WHERE id = $1`, id)
}
