package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	"github.com/Hayal27/sininning-pro-sub000/internal/cache"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

// listPublicCategories returns categories in display order
// GET /api/v1/product-categories
func (r *Router) listPublicCategories(c *gin.Context) {
	categories, err := r.repos.Categories.List(c.Request.Context(), true)
	if err != nil {
		handleRepositoryError(c, err, "categories", "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "count": len(categories)})
}

// listCategories returns every category with product counts
// GET /api/v1/admin/product-categories
func (r *Router) listCategories(c *gin.Context) {
	categories, err := r.repos.Categories.List(c.Request.Context(), false)
	if err != nil {
		handleRepositoryError(c, err, "categories", "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "count": len(categories)})
}

// createCategory creates a category
// POST /api/v1/admin/product-categories
func (r *Router) createCategory(c *gin.Context) {
	var req models.CategoryCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := r.repos.Categories.Create(c.Request.Context(), &req)
	if err != nil {
		handleRepositoryError(c, err, "category", "create")
		return
	}

	r.categoryChanged(c, infraevents.ContentCreated, category)
	c.JSON(http.StatusCreated, category)
}

// getCategory retrieves a category by ID
// GET /api/v1/admin/product-categories/:id
func (r *Router) getCategory(c *gin.Context) {
	id, ok := parseUUID(c, "id", "category")
	if !ok {
		return
	}

	category, err := r.repos.Categories.GetByID(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err, "category", "get")
		return
	}
	c.JSON(http.StatusOK, category)
}

// updateCategory applies a partial update
// PUT /api/v1/admin/product-categories/:id
func (r *Router) updateCategory(c *gin.Context) {
	id, ok := parseUUID(c, "id", "category")
	if !ok {
		return
	}

	var req models.CategoryUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	category, err := r.repos.Categories.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleRepositoryError(c, err, "category", "update")
		return
	}

	r.categoryChanged(c, infraevents.ContentUpdated, category)
	c.JSON(http.StatusOK, category)
}

// deleteCategory removes a category; its products become uncategorised
// DELETE /api/v1/admin/product-categories/:id
func (r *Router) deleteCategory(c *gin.Context) {
	id, ok := parseUUID(c, "id", "category")
	if !ok {
		return
	}

	if err := r.repos.Categories.Delete(c.Request.Context(), id); err != nil {
		handleRepositoryError(c, err, "category", "delete")
		return
	}

	r.categoryChanged(c, infraevents.ContentDeleted, &models.ProductCategory{ID: id})
	c.Status(http.StatusNoContent)
}

// categoryChanged also drops cached product pages, which embed category names.
func (r *Router) categoryChanged(c *gin.Context, eventType infraevents.EventType, category *models.ProductCategory) {
	r.contentChanged(c, contentChange{
		eventType:  eventType,
		entity:     infraevents.EntityCategory,
		id:         category.ID,
		slug:       category.Slug,
		title:      category.Name,
		namespaces: []string{cache.NamespaceCategories, cache.NamespaceProducts},
	})
}
