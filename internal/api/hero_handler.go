package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	"github.com/Hayal27/sininning-pro-sub000/internal/cache"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

// listPublicHeroSections returns active banners in display order
// GET /api/v1/hero-sections
func (r *Router) listPublicHeroSections(c *gin.Context) {
	active := true
	sections, err := r.repos.Heroes.List(c.Request.Context(), &active)
	if err != nil {
		handleRepositoryError(c, err, "hero sections", "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"hero_sections": sections, "count": len(sections)})
}

// listHeroSections returns every banner
// GET /api/v1/admin/hero-sections?active=
func (r *Router) listHeroSections(c *gin.Context) {
	sections, err := r.repos.Heroes.List(c.Request.Context(), parseOptionalBool(c, "active"))
	if err != nil {
		handleRepositoryError(c, err, "hero sections", "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"hero_sections": sections, "count": len(sections)})
}

// createHeroSection creates a banner
// POST /api/v1/admin/hero-sections
func (r *Router) createHeroSection(c *gin.Context) {
	var req models.HeroCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	section, err := r.repos.Heroes.Create(c.Request.Context(), &req)
	if err != nil {
		handleRepositoryError(c, err, "hero section", "create")
		return
	}

	r.heroChanged(c, infraevents.ContentCreated, section)
	c.JSON(http.StatusCreated, section)
}

// getHeroSection retrieves a banner by ID
// GET /api/v1/admin/hero-sections/:id
func (r *Router) getHeroSection(c *gin.Context) {
	id, ok := parseUUID(c, "id", "hero section")
	if !ok {
		return
	}

	section, err := r.repos.Heroes.GetByID(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err, "hero section", "get")
		return
	}
	c.JSON(http.StatusOK, section)
}

// updateHeroSection applies a partial update
// PUT /api/v1/admin/hero-sections/:id
func (r *Router) updateHeroSection(c *gin.Context) {
	id, ok := parseUUID(c, "id", "hero section")
	if !ok {
		return
	}

	var req models.HeroUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	section, err := r.repos.Heroes.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleRepositoryError(c, err, "hero section", "update")
		return
	}

	r.heroChanged(c, infraevents.ContentUpdated, section)
	c.JSON(http.StatusOK, section)
}

// deleteHeroSection removes a banner
// DELETE /api/v1/admin/hero-sections/:id
func (r *Router) deleteHeroSection(c *gin.Context) {
	id, ok := parseUUID(c, "id", "hero section")
	if !ok {
		return
	}

	if err := r.repos.Heroes.Delete(c.Request.Context(), id); err != nil {
		handleRepositoryError(c, err, "hero section", "delete")
		return
	}

	r.heroChanged(c, infraevents.ContentDeleted, &models.HeroSection{ID: id})
	c.Status(http.StatusNoContent)
}

func (r *Router) heroChanged(c *gin.Context, eventType infraevents.EventType, section *models.HeroSection) {
	r.contentChanged(c, contentChange{
		eventType:  eventType,
		entity:     infraevents.EntityHero,
		id:         section.ID,
		title:      section.Title,
		namespaces: []string{cache.NamespaceHero},
	})
}
