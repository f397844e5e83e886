package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const categoryColumns = `id, name, slug, description, display_order, created_at, updated_at`

// CategoryRepository stores product categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a category. The slug is derived from the name when omitted.
func (r *CategoryRepository) Create(ctx context.Context, req *models.CategoryCreateRequest) (*models.ProductCategory, error) {
	now := time.Now()
	category := &models.ProductCategory{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        models.SlugOrDerive(req.Slug, req.Name),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}

	query := `
		INSERT INTO product_categories (id, name, slug, description, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + categoryColumns

	err := r.db.QueryRowxContext(ctx, query,
		category.ID, category.Name, category.Slug, category.Description,
		category.DisplayOrder, category.CreatedAt, category.UpdatedAt,
	).StructScan(category)
	if err != nil {
		return nil, mapError(err, "create category")
	}
	return category, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductCategory, error) {
	category := &models.ProductCategory{}
	query := `SELECT ` + categoryColumns + ` FROM product_categories WHERE id = $1`

	if err := r.db.GetContext(ctx, category, query, id); err != nil {
		return nil, mapError(err, "get category")
	}
	return category, nil
}

// GetBySlug retrieves a category by slug
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.ProductCategory, error) {
	category := &models.ProductCategory{}
	query := `SELECT ` + categoryColumns + ` FROM product_categories WHERE slug = $1`

	if err := r.db.GetContext(ctx, category, query, slug); err != nil {
		return nil, mapError(err, "get category")
	}
	return category, nil
}

// List returns all categories in display order with their product counts.
// activeOnly counts only active products.
func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.ProductCategory, error) {
	countExpr := `COUNT(p.id)`
	if activeOnly {
		countExpr = `COUNT(p.id) FILTER (WHERE p.is_active)`
	}

	query := `
		SELECT c.id, c.name, c.slug, c.description, c.display_order, c.created_at, c.updated_at,
		       ` + countExpr + ` AS product_count
		FROM product_categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.display_order ASC, c.name ASC`

	categories := []models.ProductCategory{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, mapError(err, "list categories")
	}
	return categories, nil
}

// Update applies a partial update.
func (r *CategoryRepository) Update(ctx context.Context, id uuid.UUID, req *models.CategoryUpdateRequest) (*models.ProductCategory, error) {
	updates := make(map[string]any)

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}

	query, args, err := buildUpdateQuery("product_categories", id, updates, categoryColumns)
	if err != nil {
		return nil, err
	}

	category := &models.ProductCategory{}
	if err = r.db.QueryRowxContext(ctx, query, args...).StructScan(category); err != nil {
		return nil, mapError(err, "update category")
	}
	return category, nil
}

// Delete removes a category; its products keep existing without a category.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return execAffected(ctx, r.db, "delete category", `DELETE FROM product_categories WHERE id = $1`, id)
}
