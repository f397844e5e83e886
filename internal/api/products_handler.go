package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/cache"
	"github.com/Hayal27/sininning-pro-sub000/internal/content"
	"github.com/Hayal27/sininning-pro-sub000/internal/export"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
)

const (
	maxImportBytes       = 10 << 20
	productTemplateName  = "products-template.xlsx"
	contentDispositionFn = `attachment; filename="`
)

// listPublicProducts returns active products
// GET /api/v1/products?category=&featured=&search=&limit=&offset=
func (r *Router) listPublicProducts(c *gin.Context) {
	active := true
	filter := repository.ProductFilter{
		Page:         parsePage(c),
		Sort:         parseSort(c),
		Search:       c.Query("search"),
		CategorySlug: c.Query("category"),
		Featured:     parseOptionalBool(c, "featured"),
		Active:       &active,
	}
	r.respondProducts(c, filter)
}

// getPublicProduct returns one active product
// GET /api/v1/products/:slug
func (r *Router) getPublicProduct(c *gin.Context) {
	product, err := r.repos.Products.GetBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		handleRepositoryError(c, err, "product", "get")
		return
	}
	c.JSON(http.StatusOK, product)
}

// listProducts returns products including inactive ones
// GET /api/v1/admin/products?category=&featured=&active=&search=&limit=&offset=
func (r *Router) listProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Page:         parsePage(c),
		Sort:         parseSort(c),
		Search:       c.Query("search"),
		CategorySlug: c.Query("category"),
		Featured:     parseOptionalBool(c, "featured"),
		Active:       parseOptionalBool(c, "active"),
	}
	r.respondProducts(c, filter)
}

func (r *Router) respondProducts(c *gin.Context, filter repository.ProductFilter) {
	products, total, err := r.repos.Products.List(c.Request.Context(), filter)
	if err != nil {
		handleRepositoryError(c, err, "products", "list")
		return
	}
	c.JSON(http.StatusOK, pageResponse("products", products, total, filter.Page))
}

// createProduct creates a product
// POST /api/v1/admin/products
func (r *Router) createProduct(c *gin.Context) {
	var req models.ProductCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	body, err := content.Prepare(req.Description, req.Summary)
	if err != nil {
		handleValidationError(c, err)
		return
	}
	req.Description = body.HTML
	req.Summary = body.Summary

	product, err := r.repos.Products.Create(c.Request.Context(), &req)
	if err != nil {
		handleRepositoryError(c, err, "product", "create")
		return
	}

	r.search.SyncProduct(product)
	r.productChanged(c, infraevents.ContentCreated, product)
	c.JSON(http.StatusCreated, product)
}

// getProduct retrieves a product by ID
// GET /api/v1/admin/products/:id
func (r *Router) getProduct(c *gin.Context) {
	id, ok := parseUUID(c, "id", "product")
	if !ok {
		return
	}

	product, err := r.repos.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err, "product", "get")
		return
	}
	c.JSON(http.StatusOK, product)
}

// updateProduct applies a partial update
// PUT /api/v1/admin/products/:id
func (r *Router) updateProduct(c *gin.Context) {
	id, ok := parseUUID(c, "id", "product")
	if !ok {
		return
	}

	var req models.ProductUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	if req.Description != nil {
		summary := ""
		if req.Summary != nil {
			summary = *req.Summary
		}
		body, err := content.Prepare(*req.Description, summary)
		if err != nil {
			handleValidationError(c, err)
			return
		}
		req.Description = &body.HTML
		if req.Summary != nil {
			req.Summary = &body.Summary
		}
	}

	product, err := r.repos.Products.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleRepositoryError(c, err, "product", "update")
		return
	}

	r.search.SyncProduct(product)
	r.productChanged(c, infraevents.ContentUpdated, product)
	c.JSON(http.StatusOK, product)
}

// deleteProduct removes a product
// DELETE /api/v1/admin/products/:id
func (r *Router) deleteProduct(c *gin.Context) {
	id, ok := parseUUID(c, "id", "product")
	if !ok {
		return
	}

	if err := r.repos.Products.Delete(c.Request.Context(), id); err != nil {
		handleRepositoryError(c, err, "product", "delete")
		return
	}

	r.search.Remove(models.SearchTypeProduct, id)
	r.productChanged(c, infraevents.ContentDeleted, &models.Product{ID: id})
	c.Status(http.StatusNoContent)
}

// importProducts creates or updates products from an uploaded spreadsheet.
// The import is all or nothing: any rejected row aborts it.
// POST /api/v1/admin/products/import (multipart field "file")
func (r *Router) importProducts(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A spreadsheet must be uploaded in the \"file\" field"})
		return
	}
	file, err := header.Open()
	if err != nil {
		log.Error("Failed to open uploaded spreadsheet", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read spreadsheet"})
		return
	}
	defer file.Close()

	rows, rowErrs, err := export.ParseProducts(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spreadsheet", "details": err.Error()})
		return
	}

	categories := make(map[string]*models.ProductCategory)
	reqs := make([]*models.ProductCreateRequest, 0, len(rows))
	for _, row := range rows {
		if row.CategorySlug != "" {
			category, ok := categories[row.CategorySlug]
			if !ok {
				category, err = r.repos.Categories.GetBySlug(ctx, row.CategorySlug)
				switch {
				case errors.Is(err, models.ErrNotFound):
					rowErrs = append(rowErrs, models.ImportError{
						Row:   row.Row,
						Error: "unknown category " + row.CategorySlug,
					})
					continue
				case err != nil:
					handleRepositoryError(c, err, "category", "resolve")
					return
				}
				categories[row.CategorySlug] = category
			}
			row.Request.CategoryID = &category.ID
		}

		body, prepErr := content.Prepare(row.Request.Description, row.Request.Summary)
		if prepErr != nil {
			rowErrs = append(rowErrs, models.ImportError{Row: row.Row, Error: prepErr.Error()})
			continue
		}
		row.Request.Description = body.HTML
		row.Request.Summary = body.Summary
		reqs = append(reqs, row.Request)
	}

	if len(rowErrs) > 0 {
		c.JSON(http.StatusBadRequest, models.ProductImportResult{Errors: rowErrs})
		return
	}

	created, updated, err := r.repos.Products.UpsertManyTx(ctx, reqs)
	if err != nil {
		handleRepositoryError(c, err, "products", "import")
		return
	}

	log.Info("Products imported",
		logger.String("file", header.Filename),
		logger.Int("created", created),
		logger.Int("updated", updated),
	)

	r.cache.Invalidate(ctx, cache.NamespaceProducts, cache.NamespaceCategories)
	if r.search.Enabled() {
		go r.reindexInBackground(ctx)
	}

	c.JSON(http.StatusOK, models.ProductImportResult{
		Created: created,
		Updated: updated,
		Errors:  []models.ImportError{},
	})
}

// downloadProductTemplate serves an empty import workbook
// GET /api/v1/admin/products/import/template
func (r *Router) downloadProductTemplate(c *gin.Context) {
	writeAttachment(c, productTemplateName, func(c *gin.Context) error {
		return export.WriteProductTemplate(c.Writer)
	})
}

func (r *Router) productChanged(c *gin.Context, eventType infraevents.EventType, product *models.Product) {
	r.contentChanged(c, contentChange{
		eventType:  eventType,
		entity:     infraevents.EntityProduct,
		id:         product.ID,
		slug:       product.Slug,
		title:      product.Name,
		namespaces: []string{cache.NamespaceProducts, cache.NamespaceCategories},
	})
}
