package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// dashboard returns the admin landing page counts
// GET /api/v1/admin/dashboard
func (r *Router) dashboard(c *gin.Context) {
	summary, err := r.repos.Dashboard.Summary(c.Request.Context())
	if err != nil {
		handleRepositoryError(c, err, "dashboard", "load")
		return
	}

	response := gin.H{"summary": summary}
	if r.broker != nil {
		response["live_clients"] = r.broker.ClientCount()
	}
	c.JSON(http.StatusOK, response)
}
