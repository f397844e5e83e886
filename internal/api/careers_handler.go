package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	"github.com/Hayal27/sininning-pro-sub000/internal/cache"
	"github.com/Hayal27/sininning-pro-sub000/internal/content"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
)

// listPublicCareers returns open postings whose deadline has not passed
// GET /api/v1/careers?department=&location=&employment_type=&search=&limit=&offset=
func (r *Router) listPublicCareers(c *gin.Context) {
	filter := r.careerFilter(c)
	filter.PublicOnly = true
	r.respondCareers(c, filter)
}

// getPublicCareer returns one visible posting
// GET /api/v1/careers/:slug
func (r *Router) getPublicCareer(c *gin.Context) {
	career, err := r.repos.Careers.GetBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		handleRepositoryError(c, err, "career", "get")
		return
	}
	c.JSON(http.StatusOK, career)
}

// listCareers returns postings in any status
// GET /api/v1/admin/careers?status=&department=&location=&employment_type=&search=&limit=&offset=
func (r *Router) listCareers(c *gin.Context) {
	filter := r.careerFilter(c)
	filter.Status = models.CareerStatus(c.Query("status"))
	r.respondCareers(c, filter)
}

func (r *Router) careerFilter(c *gin.Context) repository.CareerFilter {
	return repository.CareerFilter{
		Page:           parsePage(c),
		Sort:           parseSort(c),
		Search:         c.Query("search"),
		Department:     c.Query("department"),
		Location:       c.Query("location"),
		EmploymentType: models.EmploymentType(c.Query("employment_type")),
	}
}

func (r *Router) respondCareers(c *gin.Context, filter repository.CareerFilter) {
	careers, total, err := r.repos.Careers.List(c.Request.Context(), filter)
	if err != nil {
		handleRepositoryError(c, err, "careers", "list")
		return
	}
	c.JSON(http.StatusOK, pageResponse("careers", careers, total, filter.Page))
}

// createCareer creates a posting
// POST /api/v1/admin/careers
func (r *Router) createCareer(c *gin.Context) {
	var req models.CareerCreateRequest
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

	career, err := r.repos.Careers.Create(c.Request.Context(), &req)
	if err != nil {
		handleRepositoryError(c, err, "career", "create")
		return
	}

	r.search.SyncCareer(career)
	r.careerChanged(c, infraevents.ContentCreated, career)
	c.JSON(http.StatusCreated, career)
}

// getCareer retrieves a posting by ID
// GET /api/v1/admin/careers/:id
func (r *Router) getCareer(c *gin.Context) {
	id, ok := parseUUID(c, "id", "career")
	if !ok {
		return
	}

	career, err := r.repos.Careers.GetByID(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err, "career", "get")
		return
	}
	c.JSON(http.StatusOK, career)
}

// updateCareer applies a partial update
// PUT /api/v1/admin/careers/:id
func (r *Router) updateCareer(c *gin.Context) {
	id, ok := parseUUID(c, "id", "career")
	if !ok {
		return
	}

	var req models.CareerUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	if req.Description != nil {
		clean, err := content.Sanitize(*req.Description)
		if err != nil {
			handleValidationError(c, err)
			return
		}
		req.Description = &clean
	}

	career, err := r.repos.Careers.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleRepositoryError(c, err, "career", "update")
		return
	}

	r.search.SyncCareer(career)
	r.careerChanged(c, infraevents.ContentUpdated, career)
	c.JSON(http.StatusOK, career)
}

// deleteCareer removes a posting
// DELETE /api/v1/admin/careers/:id
func (r *Router) deleteCareer(c *gin.Context) {
	id, ok := parseUUID(c, "id", "career")
	if !ok {
		return
	}

	if err := r.repos.Careers.Delete(c.Request.Context(), id); err != nil {
		handleRepositoryError(c, err, "career", "delete")
		return
	}

	r.search.Remove(models.SearchTypeCareer, id)
	r.careerChanged(c, infraevents.ContentDeleted, &models.Career{ID: id})
	c.Status(http.StatusNoContent)
}

func (r *Router) careerChanged(c *gin.Context, eventType infraevents.EventType, career *models.Career) {
	r.contentChanged(c, contentChange{
		eventType:  eventType,
		entity:     infraevents.EntityCareer,
		id:         career.ID,
		slug:       career.Slug,
		title:      career.Title,
		namespaces: []string{cache.NamespaceCareers},
	})
}
