package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

// login authenticates staff by username or email
// POST /api/v1/auth/login
func (r *Router) login(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	login := strings.TrimSpace(req.Login)

	user, err := r.repos.Users.GetByLogin(ctx, login)
	switch {
	case errors.Is(err, models.ErrNotFound):
		r.passwords.Burn(req.Password)
		log.Warn("Login attempt failed - user not found", logger.String("login", login))
		r.rejectLogin(c)
		return
	case err != nil:
		r.metrics.RecordLogin(false)
		handleRepositoryError(c, err, "user", "authenticate")
		return
	}

	if !r.passwords.Check(user.PasswordHash, req.Password) {
		log.Warn("Login attempt failed - invalid password", logger.String("login", login))
		r.rejectLogin(c)
		return
	}
	if !user.IsActive {
		log.Warn("Login attempt failed - inactive user", logger.String("login", login))
		r.rejectLogin(c)
		return
	}

	token, expiresAt, err := r.jwt.GenerateToken(user)
	if err != nil {
		r.metrics.RecordLogin(false)
		log.Error("Failed to generate access token", logger.String("login", login), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	if touchErr := r.repos.Users.TouchLastLogin(ctx, user.ID); touchErr != nil {
		log.Warn("Failed to record last login", logger.String("user_id", user.ID.String()), logger.Error(touchErr))
	}

	r.metrics.RecordLogin(true)
	log.Info("User logged in successfully", logger.String("username", user.Username))

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// rejectLogin answers every failed login the same way so callers cannot
// tell an unknown user from a bad password or a disabled account.
func (r *Router) rejectLogin(c *gin.Context) {
	r.metrics.RecordLogin(false)
	c.JSON(http.StatusUnauthorized, gin.H{"error": models.ErrInvalidCredentials.Error()})
}

// me returns the authenticated user
// GET /api/v1/admin/auth/me
func (r *Router) me(c *gin.Context) {
	id, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := r.repos.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err, "user", "get")
		return
	}
	c.JSON(http.StatusOK, user)
}

// changePassword replaces the caller's password
// PUT /api/v1/admin/auth/password
func (r *Router) changePassword(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req models.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := r.repos.Users.GetByID(ctx, id)
	if err != nil {
		handleRepositoryError(c, err, "user", "get")
		return
	}
	if !r.passwords.Check(user.PasswordHash, req.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
		return
	}

	hash, err := r.passwords.Hash(req.NewPassword)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to hash password", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}
	if err = r.repos.Users.UpdatePassword(ctx, id, hash); err != nil {
		handleRepositoryError(c, err, "user", "update password for")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
