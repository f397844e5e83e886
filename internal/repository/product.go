package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const productColumns = `id, name, slug, category_id, sku, summary, description, features, applications,
	finish, coverage, sizes, colors, image_url, gallery, datasheet_url, is_featured, is_active,
	display_order, created_at, updated_at`

const productSelect = `
	SELECT p.id, p.name, p.slug, p.category_id, p.sku, p.summary, p.description, p.features,
	       p.applications, p.finish, p.coverage, p.sizes, p.colors, p.image_url, p.gallery,
	       p.datasheet_url, p.is_featured, p.is_active, p.display_order, p.created_at, p.updated_at,
	       c.name AS category_name, c.slug AS category_slug
	FROM products p
	LEFT JOIN product_categories c ON c.id = p.category_id`

var productSortColumns = map[string]string{
	"name":          "p.name",
	"created_at":    "p.created_at",
	"updated_at":    "p.updated_at",
	"display_order": "p.display_order",
	"sku":           "p.sku",
}

// ProductFilter selects catalog entries.
type ProductFilter struct {
	Page
	Sort
	Search       string
	CategorySlug string
	Featured     *bool
	Active       *bool
}

// ProductRepository stores the product catalog.
type ProductRepository struct {
	db     *sqlx.DB
	logger infralogger.Logger
}

// NewProductRepository creates a ProductRepository.
func NewProductRepository(db *sqlx.DB, log infralogger.Logger) *ProductRepository {
	return &ProductRepository{db: db, logger: log}
}

func newProduct(req *models.ProductCreateRequest) *models.Product {
	now := time.Now()
	product := &models.Product{
		ID:           uuid.New(),
		Name:         req.Name,
		Slug:         models.SlugOrDerive(req.Slug, req.Name),
		CategoryID:   req.CategoryID,
		SKU:          req.SKU,
		Summary:      req.Summary,
		Description:  req.Description,
		Features:     stringArray(req.Features),
		Applications: stringArray(req.Applications),
		Finish:       req.Finish,
		Coverage:     req.Coverage,
		Sizes:        stringArray(req.Sizes),
		Colors:       stringArray(req.Colors),
		ImageURL:     req.ImageURL,
		Gallery:      stringArray(req.Gallery),
		DatasheetURL: req.DatasheetURL,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		product.DisplayOrder = *req.DisplayOrder
	}
	return product
}

func productArgs(p *models.Product) []any {
	return []any{
		p.ID, p.Name, p.Slug, p.CategoryID, p.SKU, p.Summary, p.Description, p.Features,
		p.Applications, p.Finish, p.Coverage, p.Sizes, p.Colors, p.ImageURL, p.Gallery,
		p.DatasheetURL, p.IsFeatured, p.IsActive, p.DisplayOrder, p.CreatedAt, p.UpdatedAt,
	}
}

const productInsert = `
	INSERT INTO products (` + productColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

// Create inserts a product. An unknown category_id yields ErrReferenced.
func (r *ProductRepository) Create(ctx context.Context, req *models.ProductCreateRequest) (*models.Product, error) {
	product := newProduct(req)

	query := productInsert + ` RETURNING ` + productColumns
	if err := r.db.QueryRowxContext(ctx, query, productArgs(product)...).StructScan(product); err != nil {
		return nil, mapError(err, "create product")
	}
	return product, nil
}

// GetByID retrieves a product by ID with its category name.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	if err := r.db.GetContext(ctx, product, productSelect+` WHERE p.id = $1`, id); err != nil {
		return nil, mapError(err, "get product")
	}
	return product, nil
}

// GetBySlug retrieves a product by slug. activeOnly hides inactive products.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string, activeOnly bool) (*models.Product, error) {
	query := productSelect + ` WHERE p.slug = $1`
	if activeOnly {
		query += ` AND p.is_active`
	}

	product := &models.Product{}
	if err := r.db.GetContext(ctx, product, query, slug); err != nil {
		return nil, mapError(err, "get product")
	}
	return product, nil
}

func buildProductWhere(filter ProductFilter) *whereBuilder {
	w := &whereBuilder{}
	w.search(filter.Search, "p.name", "p.sku", "p.summary")
	if filter.CategorySlug != "" {
		w.eq("c.slug", filter.CategorySlug)
	}
	if filter.Featured != nil {
		w.eq("p.is_featured", *filter.Featured)
	}
	if filter.Active != nil {
		w.eq("p.is_active", *filter.Active)
	}
	return w
}

// List returns a page of products and the total matching count.
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int, error) {
	w := buildProductWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM products p LEFT JOIN product_categories c ON c.id = p.category_id` + w.sql()
	if err := r.db.GetContext(ctx, &total, countQuery, w.args...); err != nil {
		return nil, 0, mapError(err, "count products")
	}

	// #nosec G202 -- column names come from the sort whitelist
	query := productSelect + w.sql() +
		buildOrder(filter.Sort, productSortColumns, "display_order", "ASC") + `, p.name ASC` + w.page(filter.Page)

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, query, w.args...); err != nil {
		return nil, 0, mapError(err, "list products")
	}
	return products, total, nil
}

// ListActive returns every active product, for search reindexing.
func (r *ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	query := productSelect + ` WHERE p.is_active ORDER BY p.name`
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, mapError(err, "list products")
	}
	return products, nil
}

// Update applies a partial update.
func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, req *models.ProductUpdateRequest) (*models.Product, error) {
	updates := make(map[string]any)

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			updates["category_id"] = nil
		} else {
			categoryID, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				return nil, fmt.Errorf("category_id: %w", models.ErrInvalidUUID)
			}
			updates["category_id"] = categoryID
		}
	}
	setString(updates, "sku", req.SKU)
	setString(updates, "summary", req.Summary)
	setString(updates, "description", req.Description)
	setString(updates, "finish", req.Finish)
	setString(updates, "coverage", req.Coverage)
	setString(updates, "image_url", req.ImageURL)
	setString(updates, "datasheet_url", req.DatasheetURL)
	setList(updates, "features", req.Features)
	setList(updates, "applications", req.Applications)
	setList(updates, "sizes", req.Sizes)
	setList(updates, "colors", req.Colors)
	setList(updates, "gallery", req.Gallery)
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}

	query, args, err := buildUpdateQuery("products", id, updates, productColumns)
	if err != nil {
		return nil, err
	}

	product := &models.Product{}
	if err = r.db.QueryRowxContext(ctx, query, args...).StructScan(product); err != nil {
		return nil, mapError(err, "update product")
	}
	return product, nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return execAffected(ctx, r.db, "delete product", `DELETE FROM products WHERE id = $1`, id)
}

// UpsertManyTx inserts or updates products by slug in one transaction.
// Any failure rolls back the whole batch.
func (r *ProductRepository) UpsertManyTx(ctx context.Context, reqs []*models.ProductCreateRequest) (created, updated int, err error) {
	if len(reqs) == 0 {
		return 0, 0, nil
	}

	err = withTx(ctx, r.db, r.logger, func(tx *sqlx.Tx) error {
		for _, req := range reqs {
			isInsert, upsertErr := r.upsert(ctx, tx, newProduct(req))
			if upsertErr != nil {
				return fmt.Errorf("upsert product %q: %w", req.Name, upsertErr)
			}
			if isInsert {
				created++
			} else {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return created, updated, nil
}

// upsert uses the xmax = 0 trick to tell an insert from an update.
func (r *ProductRepository) upsert(ctx context.Context, tx *sqlx.Tx, product *models.Product) (bool, error) {
	query := productInsert + `
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			category_id = EXCLUDED.category_id,
			sku = EXCLUDED.sku,
			summary = EXCLUDED.summary,
			description = EXCLUDED.description,
			features = EXCLUDED.features,
			applications = EXCLUDED.applications,
			finish = EXCLUDED.finish,
			coverage = EXCLUDED.coverage,
			sizes = EXCLUDED.sizes,
			colors = EXCLUDED.colors,
			image_url = EXCLUDED.image_url,
			gallery = EXCLUDED.gallery,
			datasheet_url = EXCLUDED.datasheet_url,
			is_featured = EXCLUDED.is_featured,
			is_active = EXCLUDED.is_active,
			display_order = EXCLUDED.display_order,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0) AS is_insert`

	var isInsert bool
	if err := tx.QueryRowxContext(ctx, query, productArgs(product)...).Scan(&isInsert); err != nil {
		return false, mapError(err, "upsert product")
	}
	return isInsert, nil
}

// SearchPublic matches active products by name, SKU or summary.
func (r *ProductRepository) SearchPublic(ctx context.Context, term string, limit int) ([]models.SearchHit, error) {
	var w whereBuilder
	w.raw("is_active")
	w.search(term, "name", "sku", "summary")

	query := `SELECT id, slug, name, summary FROM products` + w.sql() + ` ORDER BY name` + w.page(Page{Limit: limit})

	var rows []struct {
		ID      uuid.UUID `db:"id"`
		Slug    string    `db:"slug"`
		Name    string    `db:"name"`
		Summary string    `db:"summary"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, mapError(err, "search products")
	}

	hits := make([]models.SearchHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, models.SearchHit{
			Type: models.SearchTypeProduct, ID: row.ID.String(), Slug: row.Slug, Title: row.Name, Summary: row.Summary,
		})
	}
	return hits, nil
}

func setString(updates map[string]any, column string, value *string) {
	if value != nil {
		updates[column] = *value
	}
}

func setList(updates map[string]any, column string, value *[]string) {
	if value != nil {
		updates[column] = stringArray(*value)
	}
}
