package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
)

// listUsers returns staff accounts
// GET /api/v1/admin/users?search=&role=&active=&limit=&offset=
func (r *Router) listUsers(c *gin.Context) {
	filter := repository.UserFilter{
		Page:   parsePage(c),
		Sort:   parseSort(c),
		Search: c.Query("search"),
		Role:   models.Role(c.Query("role")),
		Active: parseOptionalBool(c, "active"),
	}

	users, total, err := r.repos.Users.List(c.Request.Context(), filter)
	if err != nil {
		handleRepositoryError(c, err, "users", "list")
		return
	}
	c.JSON(http.StatusOK, pageResponse("users", users, total, filter.Page))
}

// createUser creates a staff account
// POST /api/v1/admin/users
func (r *Router) createUser(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.UserCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	hash, err := r.passwords.Hash(req.Password)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to hash password", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user, err := r.repos.Users.Create(ctx, &req, hash)
	if err != nil {
		handleRepositoryError(c, err, "user", "create")
		return
	}

	logger.FromContext(ctx).Info("User created",
		logger.String("user_id", user.ID.String()),
		logger.String("username", user.Username),
		logger.String("role", string(user.Role)),
	)
	c.JSON(http.StatusCreated, user)
}

// getUser retrieves a user by ID
// GET /api/v1/admin/users/:id
func (r *Router) getUser(c *gin.Context) {
	id, ok := parseUUID(c, "id", "user")
	if !ok {
		return
	}

	user, err := r.repos.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err, "user", "get")
		return
	}
	c.JSON(http.StatusOK, user)
}

// updateUser applies a partial update
// PUT /api/v1/admin/users/:id
func (r *Router) updateUser(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "user")
	if !ok {
		return
	}

	var req models.UserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleValidationError(c, err)
		return
	}

	var hash *string
	if req.Password != nil {
		hashed, err := r.passwords.Hash(*req.Password)
		if err != nil {
			logger.FromContext(ctx).Error("Failed to hash password", logger.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		hash = &hashed
	}

	user, err := r.repos.Users.Update(ctx, id, &req, hash)
	if err != nil {
		handleRepositoryError(c, err, "user", "update")
		return
	}
	c.JSON(http.StatusOK, user)
}

// deleteUser removes a staff account. Nobody can delete themselves.
// DELETE /api/v1/admin/users/:id
func (r *Router) deleteUser(c *gin.Context) {
	id, ok := parseUUID(c, "id", "user")
	if !ok {
		return
	}

	if self, _ := currentUserID(c); self == id {
		handleValidationError(c, models.ErrCannotDeleteSelf)
		return
	}

	if err := r.repos.Users.Delete(c.Request.Context(), id); err != nil {
		handleRepositoryError(c, err, "user", "delete")
		return
	}

	logger.FromContext(c.Request.Context()).Info("User deleted", logger.String("user_id", id.String()))
	c.Status(http.StatusNoContent)
}
