package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const officeColumns = `id, name, address_line, city, region, country, postal_code, phone, email, latitude,
	longitude, opening_hours, map_url, is_primary, is_active, display_order, created_at, updated_at`

const (
	pqCheckViolation         = "23514"
	officePrimaryActiveCheck = "offices_primary_active"
)

// OfficeRepository stores office locations. At most one office is primary.
type OfficeRepository struct {
	db     *sqlx.DB
	logger infralogger.Logger
}

// NewOfficeRepository creates an OfficeRepository.
func NewOfficeRepository(db *sqlx.DB, log infralogger.Logger) *OfficeRepository {
	return &OfficeRepository{db: db, logger: log}
}

func mapOfficeError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqCheckViolation && pqErr.Constraint == officePrimaryActiveCheck {
		return models.ErrInactivePrimary
	}
	return mapError(err, op)
}

// clearPrimary unsets is_primary on every office except keep.
func clearPrimary(ctx context.Context, tx *sqlx.Tx, keep uuid.UUID) error {
	query := `UPDATE offices SET is_primary = FALSE, updated_at = NOW() WHERE is_primary AND id <> $1`
	if _, err := tx.ExecContext(ctx, query, keep); err != nil {
		return mapError(err, "clear primary office")
	}
	return nil
}

// Create inserts an office. A primary office demotes the current one.
func (r *OfficeRepository) Create(ctx context.Context, req *models.OfficeCreateRequest) (*models.Office, error) {
	now := time.Now()
	office := &models.Office{
		ID:           uuid.New(),
		Name:         req.Name,
		AddressLine:  req.AddressLine,
		City:         req.City,
		Region:       req.Region,
		Country:      req.Country,
		PostalCode:   req.PostalCode,
		Phone:        req.Phone,
		Email:        req.Email,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		OpeningHours: req.OpeningHours,
		MapURL:       req.MapURL,
		IsPrimary:    req.IsPrimary,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsActive != nil {
		office.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		office.DisplayOrder = *req.DisplayOrder
	}

	query := `
		INSERT INTO offices (` + officeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + officeColumns

	err := withTx(ctx, r.db, r.logger, func(tx *sqlx.Tx) error {
		if office.IsPrimary {
			if err := clearPrimary(ctx, tx, office.ID); err != nil {
				return err
			}
		}
		err := tx.QueryRowxContext(ctx, query,
			office.ID, office.Name, office.AddressLine, office.City, office.Region, office.Country,
			office.PostalCode, office.Phone, office.Email, office.Latitude, office.Longitude,
			office.OpeningHours, office.MapURL, office.IsPrimary, office.IsActive, office.DisplayOrder,
			office.CreatedAt, office.UpdatedAt,
		).StructScan(office)
		if err != nil {
			return mapOfficeError(err, "create office")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return office, nil
}

// GetByID retrieves an office by ID
func (r *OfficeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Office, error) {
	office := &models.Office{}
	query := `SELECT ` + officeColumns + ` FROM offices WHERE id = $1`

	if err := r.db.GetContext(ctx, office, query, id); err != nil {
		return nil, mapError(err, "get office")
	}
	return office, nil
}

// GetPrimary returns the active primary office.
func (r *OfficeRepository) GetPrimary(ctx context.Context) (*models.Office, error) {
	office := &models.Office{}
	query := `SELECT ` + officeColumns + ` FROM offices WHERE is_primary AND is_active`

	if err := r.db.GetContext(ctx, office, query); err != nil {
		return nil, mapError(err, "get primary office")
	}
	return office, nil
}

// List returns offices with the primary first, then display order.
func (r *OfficeRepository) List(ctx context.Context, active *bool) ([]models.Office, error) {
	var w whereBuilder
	if active != nil {
		w.eq("is_active", *active)
	}

	query := `SELECT ` + officeColumns + ` FROM offices` + w.sql() +
		` ORDER BY is_primary DESC, display_order ASC, name ASC`

	offices := []models.Office{}
	if err := r.db.SelectContext(ctx, &offices, query, w.args...); err != nil {
		return nil, mapError(err, "list offices")
	}
	return offices, nil
}

// Update applies a partial update. Becoming primary demotes the current primary.
func (r *OfficeRepository) Update(ctx context.Context, id uuid.UUID, req *models.OfficeUpdateRequest) (*models.Office, error) {
	updates := make(map[string]any)

	setString(updates, "name", req.Name)
	setString(updates, "address_line", req.AddressLine)
	setString(updates, "city", req.City)
	setString(updates, "region", req.Region)
	setString(updates, "country", req.Country)
	setString(updates, "postal_code", req.PostalCode)
	setString(updates, "phone", req.Phone)
	setString(updates, "email", req.Email)
	setString(updates, "opening_hours", req.OpeningHours)
	setString(updates, "map_url", req.MapURL)
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.IsPrimary != nil {
		updates["is_primary"] = *req.IsPrimary
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}

	query, args, err := buildUpdateQuery("offices", id, updates, officeColumns)
	if err != nil {
		return nil, err
	}

	office := &models.Office{}
	err = withTx(ctx, r.db, r.logger, func(tx *sqlx.Tx) error {
		if req.IsPrimary != nil && *req.IsPrimary {
			if clearErr := clearPrimary(ctx, tx, id); clearErr != nil {
				return clearErr
			}
		}
		if scanErr := tx.QueryRowxContext(ctx, query, args...).StructScan(office); scanErr != nil {
			return mapOfficeError(scanErr, "update office")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return office, nil
}

// SetPrimary makes the office the primary HQ.
func (r *OfficeRepository) SetPrimary(ctx context.Context, id uuid.UUID) (*models.Office, error) {
	isPrimary := true
	return r.Update(ctx, id, &models.OfficeUpdateRequest{IsPrimary: &isPrimary})
}

// Delete removes an office. Deleting the primary leaves the site without one.
func (r *OfficeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return execAffected(ctx, r.db, "delete office", `DELETE FROM offices WHERE id = $1`, id)
}
