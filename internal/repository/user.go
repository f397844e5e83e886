package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const userColumns = `id, username, email, password_hash, full_name, role, is_active, last_login_at, created_at, updated_at`

var userSortColumns = map[string]string{
	"username":      "username",
	"email":         "email",
	"role":          "role",
	"created_at":    "created_at",
	"last_login_at": "last_login_at",
}

// UserFilter selects staff accounts.
type UserFilter struct {
	Page
	Sort
	Search string
	Role   models.Role
	Active *bool
}

// UserRepository stores staff accounts.
type UserRepository struct {
	db     *sqlx.DB
	logger infralogger.Logger
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *sqlx.DB, log infralogger.Logger) *UserRepository {
	return &UserRepository{db: db, logger: log}
}

// Create inserts a user with an already hashed password.
func (r *UserRepository) Create(ctx context.Context, req *models.UserCreateRequest, passwordHash string) (*models.User, error) {
	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	query := `
		INSERT INTO users (id, username, email, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	err := r.db.QueryRowxContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.FullName,
		user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt,
	).StructScan(user)
	if err != nil {
		return nil, mapError(err, "create user")
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, user, query, id); err != nil {
		return nil, mapError(err, "get user")
	}
	return user, nil
}

// GetByLogin finds a user by username or email, case-insensitively.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users
		WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1)
		LIMIT 1`

	if err := r.db.GetContext(ctx, user, query, login); err != nil {
		return nil, mapError(err, "get user")
	}
	return user, nil
}

// List returns a page of users and the total matching count.
func (r *UserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int, error) {
	var w whereBuilder
	w.search(filter.Search, "username", "email", "full_name")
	if filter.Role != "" {
		w.eq("role", filter.Role)
	}
	if filter.Active != nil {
		w.eq("is_active", *filter.Active)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`+w.sql(), w.args...); err != nil {
		return nil, 0, mapError(err, "count users")
	}

	// #nosec G202 -- column names come from the sort whitelist
	query := `SELECT ` + userColumns + ` FROM users` + w.sql() +
		buildOrder(filter.Sort, userSortColumns, "username", "ASC") + w.page(filter.Page)

	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, w.args...); err != nil {
		return nil, 0, mapError(err, "list users")
	}
	return users, total, nil
}

// Update applies a partial update. passwordHash replaces the hash when set.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, req *models.UserUpdateRequest, passwordHash *string) (*models.User, error) {
	updates := make(map[string]any)

	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if passwordHash != nil {
		updates["password_hash"] = *passwordHash
	}

	query, args, err := buildUpdateQuery("users", id, updates, userColumns)
	if err != nil {
		return nil, err
	}

	user := &models.User{}
	if err = r.db.QueryRowxContext(ctx, query, args...).StructScan(user); err != nil {
		return nil, mapError(err, "update user")
	}
	return user, nil
}

// UpdatePassword replaces the password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	return execAffected(ctx, r.db, "update password", query, passwordHash, id)
}

// TouchLastLogin records a successful login.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login_at = NOW() WHERE id = $1`
	return execAffected(ctx, r.db, "update last login", query, id)
}

// Delete removes a user. Authored news and assigned contacts are detached.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return execAffected(ctx, r.db, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

// CountAdmins counts active admin accounts.
func (r *UserRepository) CountAdmins(ctx context.Context) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM users WHERE role = 'admin' AND is_active`
	if err := r.db.GetContext(ctx, &n, query); err != nil {
		return 0, mapError(err, "count admins")
	}
	return n, nil
}
