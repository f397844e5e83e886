package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const careerColumns = `id, title, slug, department, location, employment_type, summary, description,
	responsibilities, requirements, salary_range, deadline, status, created_at, updated_at`

// careerVisible is the public visibility rule for postings.
const careerVisible = `status = 'open' AND (deadline IS NULL OR deadline >= CURRENT_DATE)`

var careerSortColumns = map[string]string{
	"title":      "title",
	"department": "department",
	"location":   "location",
	"deadline":   "deadline",
	"created_at": "created_at",
}

// CareerFilter selects job postings. PublicOnly applies the visibility rule.
type CareerFilter struct {
	Page
	Sort
	Search         string
	Status         models.CareerStatus
	Department     string
	Location       string
	EmploymentType models.EmploymentType
	PublicOnly     bool
}

// CareerRepository stores job postings.
type CareerRepository struct {
	db *sqlx.DB
}

// NewCareerRepository creates a CareerRepository.
func NewCareerRepository(db *sqlx.DB) *CareerRepository {
	return &CareerRepository{db: db}
}

// Create inserts a posting.
func (r *CareerRepository) Create(ctx context.Context, req *models.CareerCreateRequest) (*models.Career, error) {
	now := time.Now()
	career := &models.Career{
		ID:               uuid.New(),
		Title:            req.Title,
		Slug:             models.SlugOrDerive(req.Slug, req.Title),
		Department:       req.Department,
		Location:         req.Location,
		EmploymentType:   req.EmploymentType,
		Summary:          req.Summary,
		Description:      req.Description,
		Responsibilities: stringArray(req.Responsibilities),
		Requirements:     stringArray(req.Requirements),
		SalaryRange:      req.SalaryRange,
		Deadline:         req.Deadline,
		Status:           req.Status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	query := `
		INSERT INTO careers (` + careerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + careerColumns

	err := r.db.QueryRowxContext(ctx, query,
		career.ID, career.Title, career.Slug, career.Department, career.Location, career.EmploymentType,
		career.Summary, career.Description, career.Responsibilities, career.Requirements,
		career.SalaryRange, career.Deadline, career.Status, career.CreatedAt, career.UpdatedAt,
	).StructScan(career)
	if err != nil {
		return nil, mapError(err, "create career")
	}
	return career, nil
}

// GetByID retrieves a posting by ID
func (r *CareerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Career, error) {
	career := &models.Career{}
	query := `SELECT ` + careerColumns + ` FROM careers WHERE id = $1`

	if err := r.db.GetContext(ctx, career, query, id); err != nil {
		return nil, mapError(err, "get career")
	}
	return career, nil
}

// GetBySlug retrieves a posting by slug. publicOnly applies the visibility rule.
func (r *CareerRepository) GetBySlug(ctx context.Context, slug string, publicOnly bool) (*models.Career, error) {
	query := `SELECT ` + careerColumns + ` FROM careers WHERE slug = $1`
	if publicOnly {
		query += ` AND ` + careerVisible
	}

	career := &models.Career{}
	if err := r.db.GetContext(ctx, career, query, slug); err != nil {
		return nil, mapError(err, "get career")
	}
	return career, nil
}

// List returns a page of postings and the total matching count.
func (r *CareerRepository) List(ctx context.Context, filter CareerFilter) ([]models.Career, int, error) {
	var w whereBuilder
	if filter.PublicOnly {
		w.raw(careerVisible)
	}
	w.search(filter.Search, "title", "department", "location")
	if filter.Status != "" {
		w.eq("status", filter.Status)
	}
	if filter.Department != "" {
		w.eq("department", filter.Department)
	}
	if filter.Location != "" {
		w.eq("location", filter.Location)
	}
	if filter.EmploymentType != "" {
		w.eq("employment_type", filter.EmploymentType)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM careers`+w.sql(), w.args...); err != nil {
		return nil, 0, mapError(err, "count careers")
	}

	// #nosec G202 -- column names come from the sort whitelist
	query := `SELECT ` + careerColumns + ` FROM careers` + w.sql() +
		buildOrder(filter.Sort, careerSortColumns, "created_at", "DESC") + `, id` + w.page(filter.Page)

	careers := []models.Career{}
	if err := r.db.SelectContext(ctx, &careers, query, w.args...); err != nil {
		return nil, 0, mapError(err, "list careers")
	}
	return careers, total, nil
}

// ListVisible returns every publicly visible posting, for search reindexing.
func (r *CareerRepository) ListVisible(ctx context.Context) ([]models.Career, error) {
	careers := []models.Career{}
	query := `SELECT ` + careerColumns + ` FROM careers WHERE ` + careerVisible + ` ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &careers, query); err != nil {
		return nil, mapError(err, "list careers")
	}
	return careers, nil
}

// Update applies a partial update.
func (r *CareerRepository) Update(ctx context.Context, id uuid.UUID, req *models.CareerUpdateRequest) (*models.Career, error) {
	updates := make(map[string]any)

	setString(updates, "title", req.Title)
	setString(updates, "slug", req.Slug)
	setString(updates, "department", req.Department)
	setString(updates, "location", req.Location)
	setString(updates, "summary", req.Summary)
	setString(updates, "description", req.Description)
	setString(updates, "salary_range", req.SalaryRange)
	setList(updates, "responsibilities", req.Responsibilities)
	setList(updates, "requirements", req.Requirements)
	if req.EmploymentType != nil {
		updates["employment_type"] = *req.EmploymentType
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	switch {
	case req.ClearDeadline:
		updates["deadline"] = nil
	case req.Deadline != nil:
		updates["deadline"] = *req.Deadline
	}

	query, args, err := buildUpdateQuery("careers", id, updates, careerColumns)
	if err != nil {
		return nil, err
	}

	career := &models.Career{}
	if err = r.db.QueryRowxContext(ctx, query, args...).StructScan(career); err != nil {
		return nil, mapError(err, "update career")
	}
	return career, nil
}

// CloseExpired closes open postings whose deadline is before today and
// returns their IDs.
func (r *CareerRepository) CloseExpired(ctx context.Context, today models.Date) ([]uuid.UUID, error) {
	query := `
		UPDATE careers
		SET status = 'closed', updated_at = NOW()
		WHERE status = 'open' AND deadline < $1
		RETURNING id`

	ids := []uuid.UUID{}
	if err := r.db.SelectContext(ctx, &ids, query, today); err != nil {
		return nil, mapError(err, "close expired careers")
	}
	return ids, nil
}

// Delete removes a posting.
func (r *CareerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return execAffected(ctx, r.db, "delete career", `DELETE FROM careers WHERE id = $1`, id)
}

// SearchPublic matches visible postings by title, department or summary.
func (r *CareerRepository) SearchPublic(ctx context.Context, term string, limit int) ([]models.SearchHit, error) {
	var w whereBuilder
	w.raw(careerVisible)
	w.search(term, "title", "department", "summary")

	query := `SELECT id, slug, title, summary FROM careers` + w.sql() + ` ORDER BY created_at DESC` + w.page(Page{Limit: limit})

	var rows []struct {
		ID      uuid.UUID `db:"id"`
		Slug    string    `db:"slug"`
		Title   string    `db:"title"`
		Summary string    `db:"summary"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, mapError(err, "search careers")
	}

	hits := make([]models.SearchHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, models.SearchHit{
			Type: models.SearchTypeCareer, ID: row.ID.String(), Slug: row.Slug, Title: row.Title, Summary: row.Summary,
		})
	}
	return hits, nil
}
