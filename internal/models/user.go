package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a staff permission level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

// User is a staff account for the admin dashboard.
type User struct {
	ID           uuid.UUID  `db:"id"            json:"id"`
	Username     string     `db:"username"      json:"username"`
	Email        string     `db:"email"         json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name"     json:"full_name"`
	Role         Role       `db:"role"          json:"role"`
	IsActive     bool       `db:"is_active"     json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"    json:"updated_at"`
}

// UserCreateRequest is the payload for creating a user.
type UserCreateRequest struct {
	Username string `binding:"required,min=3,max=50"  json:"username"`
	Email    string `binding:"required"               json:"email"`
	Password string `binding:"required,min=8,max=72"  json:"password"` //nolint:gosec // request payload
	FullName string `binding:"max=255"                json:"full_name"`
	Role     Role   `binding:"omitempty,oneof=admin editor" json:"role"`
	IsActive *bool  `json:"is_active"`
}

// Validate fills the default role.
func (r *UserCreateRequest) Validate() error {
	if r.Role == "" {
		r.Role = RoleEditor
	}
	email, err := CheckEmail(r.Email)
	if err != nil {
		return err
	}
	r.Email = email
	return nil
}

// UserUpdateRequest is the payload for a partial user update.
type UserUpdateRequest struct {
	Email    *string `json:"email"`
	FullName *string `binding:"omitempty,max=255"           json:"full_name"`
	Role     *Role   `binding:"omitempty,oneof=admin editor" json:"role"`
	IsActive *bool   `json:"is_active"`
	Password *string `binding:"omitempty,min=8,max=72"      json:"password"` //nolint:gosec // request payload
}

// Validate validates the user update request
func (r *UserUpdateRequest) Validate() error {
	if r.Email == nil && r.FullName == nil && r.Role == nil && r.IsActive == nil && r.Password == nil {
		return ErrNoFieldsToUpdate
	}
	if r.Email != nil {
		email, err := CheckEmail(*r.Email)
		if err != nil {
			return err
		}
		r.Email = &email
	}
	return nil
}

// LoginRequest authenticates by username or email.
type LoginRequest struct {
	Login    string `binding:"required,max=255" json:"login"`
	Password string `binding:"required,max=72"  json:"password"` //nolint:gosec // request payload
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// ChangePasswordRequest changes the caller's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `binding:"required,max=72"       json:"current_password"`
	NewPassword     string `binding:"required,min=8,max=72" json:"new_password"`
}
