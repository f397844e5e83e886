package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const contactColumns = `id, name, email, phone, company, subject, message, inquiry_type, status, priority,
	assigned_to, admin_notes, ip_address, user_agent, resolved_at, closed_at, created_at, updated_at`

const contactSelect = `
	SELECT cs.id, cs.name, cs.email, cs.phone, cs.company, cs.subject, cs.message, cs.inquiry_type,
	       cs.status, cs.priority, cs.assigned_to, cs.admin_notes, cs.ip_address, cs.user_agent,
	       cs.resolved_at, cs.closed_at, cs.created_at, cs.updated_at,
	       COALESCE(NULLIF(u.full_name, ''), u.username) AS assignee_name
	FROM contact_submissions cs
	LEFT JOIN users u ON u.id = cs.assigned_to`

// maxExportRows bounds a spreadsheet export.
const maxExportRows = 10000

var contactSortColumns = map[string]string{
	"created_at": "cs.created_at",
	"updated_at": "cs.updated_at",
	"name":       "cs.name",
	"email":      "cs.email",
	"status":     "cs.status",
	"priority":   `CASE cs.priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'normal' THEN 2 ELSE 1 END`,
}

// ContactFilter selects inbox entries.
type ContactFilter struct {
	Page
	Sort
	Search      string
	Status      models.ContactStatus
	Priority    models.Priority
	InquiryType models.InquiryType
	AssignedTo  *uuid.UUID
	Unassigned  bool
}

// ContactRepository stores contact form submissions and their workflow.
type ContactRepository struct {
	db     *sqlx.DB
	logger infralogger.Logger
}

// NewContactRepository creates a ContactRepository.
func NewContactRepository(db *sqlx.DB, log infralogger.Logger) *ContactRepository {
	return &ContactRepository{db: db, logger: log}
}

// Create stores a new submission with status new and priority normal.
func (r *ContactRepository) Create(
	ctx context.Context, req *models.ContactCreateRequest, ipAddress, userAgent string,
) (*models.ContactSubmission, error) {
	now := time.Now()
	contact := &models.ContactSubmission{
		ID:          uuid.New(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		Subject:     req.Subject,
		Message:     req.Message,
		InquiryType: req.InquiryType,
		Status:      models.ContactStatusNew,
		Priority:    models.PriorityNormal,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO contact_submissions (id, name, email, phone, company, subject, message, inquiry_type,
			status, priority, ip_address, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + contactColumns

	err := r.db.QueryRowxContext(ctx, query,
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.Company, contact.Subject,
		contact.Message, contact.InquiryType, contact.Status, contact.Priority, contact.IPAddress,
		contact.UserAgent, contact.CreatedAt, contact.UpdatedAt,
	).StructScan(contact)
	if err != nil {
		return nil, mapError(err, "create contact submission")
	}
	return contact, nil
}

// GetByID retrieves a submission by ID with the assignee's name.
func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	contact := &models.ContactSubmission{}
	if err := r.db.GetContext(ctx, contact, contactSelect+` WHERE cs.id = $1`, id); err != nil {
		return nil, mapError(err, "get contact submission")
	}
	return contact, nil
}

func buildContactWhere(filter ContactFilter) *whereBuilder {
	w := &whereBuilder{}
	w.search(filter.Search, "cs.name", "cs.email", "cs.subject")
	if filter.Status != "" {
		w.eq("cs.status", filter.Status)
	}
	if filter.Priority != "" {
		w.eq("cs.priority", filter.Priority)
	}
	if filter.InquiryType != "" {
		w.eq("cs.inquiry_type", filter.InquiryType)
	}
	switch {
	case filter.Unassigned:
		w.raw("cs.assigned_to IS NULL")
	case filter.AssignedTo != nil:
		w.eq("cs.assigned_to", *filter.AssignedTo)
	}
	return w
}

// List returns a page of submissions and the total matching count.
func (r *ContactRepository) List(ctx context.Context, filter ContactFilter) ([]models.ContactSubmission, int, error) {
	w := buildContactWhere(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM contact_submissions cs`+w.sql(), w.args...); err != nil {
		return nil, 0, mapError(err, "count contact submissions")
	}

	// #nosec G202 -- column names come from the sort whitelist
	query := contactSelect + w.sql() +
		buildOrder(filter.Sort, contactSortColumns, "created_at", "DESC") + `, cs.created_at DESC` + w.page(filter.Page)

	contacts := []models.ContactSubmission{}
	if err := r.db.SelectContext(ctx, &contacts, query, w.args...); err != nil {
		return nil, 0, mapError(err, "list contact submissions")
	}
	return contacts, total, nil
}

// ListForExport returns every submission matching filter, newest first,
// ignoring pagination.
func (r *ContactRepository) ListForExport(ctx context.Context, filter ContactFilter) ([]models.ContactSubmission, error) {
	w := buildContactWhere(filter)
	query := contactSelect + w.sql() + ` ORDER BY cs.created_at DESC LIMIT ` + w.arg(maxExportRows)

	contacts := []models.ContactSubmission{}
	if err := r.db.SelectContext(ctx, &contacts, query, w.args...); err != nil {
		return nil, mapError(err, "export contact submissions")
	}
	return contacts, nil
}

// Recent returns the newest n submissions.
func (r *ContactRepository) Recent(ctx context.Context, n int) ([]*models.ContactSubmission, error) {
	contacts := []*models.ContactSubmission{}
	query := contactSelect + ` ORDER BY cs.created_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &contacts, query, n); err != nil {
		return nil, mapError(err, "list recent contact submissions")
	}
	return contacts, nil
}

// Update applies an admin triage change under a row lock and enforces the
// status workflow. It returns the updated row and the status it had before.
func (r *ContactRepository) Update(
	ctx context.Context, id uuid.UUID, req *models.ContactUpdateRequest,
) (*models.ContactSubmission, models.ContactStatus, error) {
	var (
		contact  = &models.ContactSubmission{}
		previous models.ContactStatus
	)

	err := withTx(ctx, r.db, r.logger, func(tx *sqlx.Tx) error {
		lockQuery := `SELECT status FROM contact_submissions WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &previous, lockQuery, id); err != nil {
			return mapError(err, "lock contact submission")
		}

		updates, err := contactUpdates(previous, req)
		if err != nil {
			return err
		}

		query, args, err := buildUpdateQuery("contact_submissions", id, updates, contactColumns)
		if err != nil {
			return err
		}
		if scanErr := tx.QueryRowxContext(ctx, query, args...).StructScan(contact); scanErr != nil {
			return mapError(scanErr, "update contact submission")
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return contact, previous, nil
}

// contactUpdates turns a triage request into column updates. Closed
// submissions only accept admin notes.
func contactUpdates(current models.ContactStatus, req *models.ContactUpdateRequest) (map[string]any, error) {
	updates := make(map[string]any)

	if req.Status != nil && *req.Status != current {
		next := *req.Status
		if !current.CanTransition(next) {
			return nil, models.ErrInvalidStatusTransition
		}
		updates["status"] = next
		switch next {
		case models.ContactStatusResolved:
			updates["resolved_at"] = sqlExpr("NOW()")
		case models.ContactStatusClosed:
			updates["closed_at"] = sqlExpr("NOW()")
		case models.ContactStatusInProgress, models.ContactStatusNew:
			updates["resolved_at"] = nil
		}
	}

	closed := current == models.ContactStatusClosed
	if req.Priority != nil {
		if closed {
			return nil, models.ErrContactClosed
		}
		updates["priority"] = *req.Priority
	}
	if assignee, ok := req.AssigneeID(); ok {
		if closed {
			return nil, models.ErrContactClosed
		}
		if assignee == nil {
			updates["assigned_to"] = nil
		} else {
			updates["assigned_to"] = *assignee
		}
	}
	if req.AdminNotes != nil {
		updates["admin_notes"] = *req.AdminNotes
	}

	// same-status request with nothing else: touch updated_at only
	if len(updates) == 0 {
		updates["status"] = current
	}
	return updates, nil
}

// Stats counts submissions by status and by priority.
func (r *ContactRepository) Stats(ctx context.Context) (*models.ContactStats, error) {
	var rows []struct {
		Status   models.ContactStatus `db:"status"`
		Priority models.Priority      `db:"priority"`
		Count    int64                `db:"count"`
	}
	query := `SELECT status, priority, COUNT(*) AS count FROM contact_submissions GROUP BY status, priority`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, mapError(err, "count contact submissions")
	}

	stats := models.NewContactStats()
	for _, row := range rows {
		stats.Total += row.Count
		stats.ByStatus[row.Status] += row.Count
		stats.ByPriority[row.Priority] += row.Count
	}
	return stats, nil
}

// Delete removes a submission.
func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return execAffected(ctx, r.db, "delete contact submission", `DELETE FROM contact_submissions WHERE id = $1`, id)
}
