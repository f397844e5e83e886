package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	infraevents "github.com/Hayal27/sininning-pro-sub000/infrastructure/events"
	"github.com/Hayal27/sininning-pro-sub000/internal/cache"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

// listPublicOffices returns active offices, primary first
// GET /api/v1/offices
func (r *Router) listPublicOffices(c *gin.Context) {
	active := true
	offices, err := r.repos.Offices.List(c.Request.Context(), &active)
	if err != nil {
		handleRepositoryError(c, err, "offices", "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"offices": offices, "count": len(offices)})
}

// getPrimaryOffice returns the headquarters shown in the site footer
// GET /api/v1/offices/primary
func (r *Router) getPrimaryOffice(c *gin.Context) {
	office, err := r.repos.Offices.GetPrimary(c.Request.Context())
	if err != nil {
		handleRepositoryError(c, err, "primary office", "get")
		return
	}
	c.JSON(http.StatusOK, office)
}

// listOffices returns every office
// GET /api/v1/admin/offices?active=
func (r *Router) listOffices(c *gin.Context) {
	offices, err := r.repos.Offices.List(c.Request.Context(), parseOptionalBool(c, "active"))
	if err != nil {
		handleRepositoryError(c, err, "offices", "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"offices": offices, "count": len(offices)})
}

// createOffice creates an office. A new primary office demotes the old one.
// POST /api/v1/admin/offices
func (r *Router) createOffice(c *gin.Context) {
	var req models.OfficeCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	office, err := r.repos.Offices.Create(c.Request.Context(), &req)
	if err != nil {
		handleRepositoryError(c, err, "office", "create")
		return
	}

	r.officeChanged(c, infraevents.ContentCreated, office)
	c.JSON(http.StatusCreated, office)
}

// getOffice retrieves an office by ID
// GET /api/v1/admin/offices/:id
func (r *Router) getOffice(c *gin.Context) {
	id, ok := parseUUID(c, "id", "office")
	if !ok {
		return
	}

	office, err := r.repos.Offices.GetByID(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err, "office", "get")
		return
	}
	c.JSON(http.StatusOK, office)
}

// updateOffice applies a partial update
// PUT /api/v1/admin/offices/:id
func (r *Router) updateOffice(c *gin.Context) {
	id, ok := parseUUID(c, "id", "office")
	if !ok {
		return
	}

	var req models.OfficeUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	office, err := r.repos.Offices.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleRepositoryError(c, err, "office", "update")
		return
	}

	r.officeChanged(c, infraevents.ContentUpdated, office)
	c.JSON(http.StatusOK, office)
}

// setPrimaryOffice makes an active office the primary one
// POST /api/v1/admin/offices/:id/primary
func (r *Router) setPrimaryOffice(c *gin.Context) {
	id, ok := parseUUID(c, "id", "office")
	if !ok {
		return
	}

	office, err := r.repos.Offices.SetPrimary(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err, "office", "update")
		return
	}

	r.officeChanged(c, infraevents.ContentUpdated, office)
	c.JSON(http.StatusOK, office)
}

// deleteOffice removes an office
// DELETE /api/v1/admin/offices/:id
func (r *Router) deleteOffice(c *gin.Context) {
	id, ok := parseUUID(c, "id", "office")
	if !ok {
		return
	}

	if err := r.repos.Offices.Delete(c.Request.Context(), id); err != nil {
		handleRepositoryError(c, err, "office", "delete")
		return
	}

	r.officeChanged(c, infraevents.ContentDeleted, &models.Office{ID: id})
	c.Status(http.StatusNoContent)
}

func (r *Router) officeChanged(c *gin.Context, eventType infraevents.EventType, office *models.Office) {
	r.contentChanged(c, contentChange{
		eventType:  eventType,
		entity:     infraevents.EntityOffice,
		id:         office.ID,
		title:      office.Name,
		namespaces: []string{cache.NamespaceOffices},
	})
}
