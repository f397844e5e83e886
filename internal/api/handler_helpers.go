package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/auth"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
)

// parseUUID parses a UUID from a gin.Context parameter
func parseUUID(c *gin.Context, paramName, entityType string) (uuid.UUID, bool) {
	idParam := c.Param(paramName)
	id, err := uuid.Parse(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + entityType + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body and answers 400 when it does not fit.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// handleRepositoryError handles common repository errors
func handleRepositoryError(c *gin.Context, err error, entityType, operation string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": capitalize(entityType) + " not found"})
	case errors.Is(err, models.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": capitalize(entityType) + " already exists"})
	case errors.Is(err, models.ErrReferenced):
		c.JSON(http.StatusConflict, gin.H{
			"error": capitalize(entityType) + " conflicts with related records",
		})
	case errors.Is(err, models.ErrInvalidStatusTransition), errors.Is(err, models.ErrContactClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNoFieldsToUpdate),
		errors.Is(err, models.ErrInvalidUUID),
		errors.Is(err, models.ErrInactivePrimary),
		errors.Is(err, models.ErrPublishAtRequired),
		errors.Is(err, models.ErrCannotDeleteSelf):
		handleValidationError(c, err)
	default:
		logger.FromContext(c.Request.Context()).Error("Repository operation failed",
			logger.String("entity", entityType),
			logger.String("operation", operation),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to " + operation + " " + entityType,
		})
	}
}

// handleValidationError handles validation errors
func handleValidationError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrNoFieldsToUpdate) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "At least one field must be provided for update",
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// parsePage reads limit and offset. Garbage or out-of-range values fall
// back to the defaults.
func parsePage(c *gin.Context) repository.Page {
	page := repository.Page{Limit: repository.DefaultLimit}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		page.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		page.Offset = offset
	}
	return page.Normalize()
}

func parseSort(c *gin.Context) repository.Sort {
	return repository.Sort{
		By:    c.Query("sort_by"),
		Order: c.Query("sort_order"),
	}
}

// parseOptionalBool returns nil unless the query value is a recognised boolean.
func parseOptionalBool(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

// pageResponse is the paginated list envelope.
func pageResponse(key string, items any, total int, page repository.Page) gin.H {
	return gin.H{
		key:      items,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	}
}

// currentUserID returns the authenticated user's ID.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := auth.GetClaims(c)
	if !ok {
		return uuid.Nil, false
	}
	id, err := claims.UserID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// actor names the authenticated user in events.
func actor(c *gin.Context) string {
	if claims, ok := auth.GetClaims(c); ok {
		return claims.Username
	}
	return ""
}
