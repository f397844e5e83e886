package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const newsColumns = `id, title, slug, summary, content, cover_image, category, tags, author_id, status,
	publish_at, published_at, view_count, reading_minutes, created_at, updated_at`

const newsSelect = `
	SELECT n.id, n.title, n.slug, n.summary, n.content, n.cover_image, n.category, n.tags, n.author_id,
	       n.status, n.publish_at, n.published_at, n.view_count, n.reading_minutes, n.created_at,
	       n.updated_at, NULLIF(u.full_name, '') AS author_name
	FROM news n
	LEFT JOIN users u ON u.id = n.author_id`

var newsSortColumns = map[string]string{
	"title":        "n.title",
	"created_at":   "n.created_at",
	"updated_at":   "n.updated_at",
	"published_at": "n.published_at",
	"publish_at":   "n.publish_at",
	"view_count":   "n.view_count",
}

// NewsFilter selects articles.
type NewsFilter struct {
	Page
	Sort
	Search   string
	Status   models.NewsStatus
	Category string
	Tag      string
}

// NewsRepository stores articles.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository creates a NewsRepository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// Create inserts an article. Content and summary must already be sanitized.
func (r *NewsRepository) Create(
	ctx context.Context, req *models.NewsCreateRequest, authorID *uuid.UUID, readingMinutes int,
) (*models.News, error) {
	now := time.Now()
	news := &models.News{
		ID:             uuid.New(),
		Title:          req.Title,
		Slug:           models.SlugOrDerive(req.Slug, req.Title),
		Summary:        req.Summary,
		Content:        req.Content,
		CoverImage:     req.CoverImage,
		Category:       req.Category,
		Tags:           stringArray(req.Tags),
		AuthorID:       authorID,
		Status:         req.Status,
		PublishAt:      req.PublishAt,
		ReadingMinutes: readingMinutes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if news.Status == models.NewsStatusPublished {
		news.PublishedAt = &now
	}

	query := `
		INSERT INTO news (id, title, slug, summary, content, cover_image, category, tags, author_id, status,
			publish_at, published_at, view_count, reading_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, $13, $14, $15)
		RETURNING ` + newsColumns

	err := r.db.QueryRowxContext(ctx, query,
		news.ID, news.Title, news.Slug, news.Summary, news.Content, news.CoverImage, news.Category,
		news.Tags, news.AuthorID, news.Status, news.PublishAt, news.PublishedAt, news.ReadingMinutes,
		news.CreatedAt, news.UpdatedAt,
	).StructScan(news)
	if err != nil {
		return nil, mapError(err, "create news")
	}
	return news, nil
}

// GetByID retrieves an article by ID
func (r *NewsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.News, error) {
	news := &models.News{}
	if err := r.db.GetContext(ctx, news, newsSelect+` WHERE n.id = $1`, id); err != nil {
		return nil, mapError(err, "get news")
	}
	return news, nil
}

// ViewPublished returns a published article by slug and counts the view.
func (r *NewsRepository) ViewPublished(ctx context.Context, slug string) (*models.News, error) {
	query := `
		WITH viewed AS (
			UPDATE news SET view_count = view_count + 1
			WHERE slug = $1 AND status = 'published'
			RETURNING ` + newsColumns + `
		)
		SELECT n.id, n.title, n.slug, n.summary, n.content, n.cover_image, n.category, n.tags, n.author_id,
		       n.status, n.publish_at, n.published_at, n.view_count, n.reading_minutes, n.created_at,
		       n.updated_at, NULLIF(u.full_name, '') AS author_name
		FROM viewed n
		LEFT JOIN users u ON u.id = n.author_id`

	news := &models.News{}
	if err := r.db.GetContext(ctx, news, query, slug); err != nil {
		return nil, mapError(err, "get news")
	}
	return news, nil
}

// List returns a page of articles and the total matching count. Published
// listings sort by published_at unless another order is requested.
func (r *NewsRepository) List(ctx context.Context, filter NewsFilter) ([]models.News, int, error) {
	var w whereBuilder
	w.search(filter.Search, "n.title", "n.summary")
	if filter.Status != "" {
		w.eq("n.status", filter.Status)
	}
	if filter.Category != "" {
		w.eq("n.category", filter.Category)
	}
	if filter.Tag != "" {
		w.raw(w.arg(filter.Tag) + " = ANY(n.tags)")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM news n`+w.sql(), w.args...); err != nil {
		return nil, 0, mapError(err, "count news")
	}

	defaultSort := "created_at"
	if filter.Status == models.NewsStatusPublished {
		defaultSort = "published_at"
	}

	// #nosec G202 -- column names come from the sort whitelist
	query := newsSelect + w.sql() +
		buildOrder(filter.Sort, newsSortColumns, defaultSort, "DESC") + `, n.id` + w.page(filter.Page)

	articles := []models.News{}
	if err := r.db.SelectContext(ctx, &articles, query, w.args...); err != nil {
		return nil, 0, mapError(err, "list news")
	}
	return articles, total, nil
}

// ListPublished returns every published article, for search reindexing.
func (r *NewsRepository) ListPublished(ctx context.Context) ([]models.News, error) {
	articles := []models.News{}
	query := newsSelect + ` WHERE n.status = 'published' ORDER BY n.published_at DESC`
	if err := r.db.SelectContext(ctx, &articles, query); err != nil {
		return nil, mapError(err, "list news")
	}
	return articles, nil
}

// Update applies a partial update. readingMinutes is set when the content changed.
// Moving to published stamps published_at once.
func (r *NewsRepository) Update(
	ctx context.Context, id uuid.UUID, req *models.NewsUpdateRequest, readingMinutes *int,
) (*models.News, error) {
	updates := make(map[string]any)

	setString(updates, "title", req.Title)
	setString(updates, "slug", req.Slug)
	setString(updates, "summary", req.Summary)
	setString(updates, "content", req.Content)
	setString(updates, "cover_image", req.CoverImage)
	setString(updates, "category", req.Category)
	setList(updates, "tags", req.Tags)
	if req.Status != nil {
		updates["status"] = *req.Status
		if *req.Status == models.NewsStatusPublished {
			updates["published_at"] = sqlExpr("COALESCE(published_at, NOW())")
		}
	}
	if req.PublishAt != nil {
		updates["publish_at"] = *req.PublishAt
	}
	if readingMinutes != nil {
		updates["reading_minutes"] = *readingMinutes
	}

	query, args, err := buildUpdateQuery("news", id, updates, newsColumns)
	if err != nil {
		return nil, err
	}

	news := &models.News{}
	if err = r.db.QueryRowxContext(ctx, query, args...).StructScan(news); err != nil {
		return nil, mapError(err, "update news")
	}
	return news, nil
}

// Publish makes an article public, keeping an earlier published_at.
func (r *NewsRepository) Publish(ctx context.Context, id uuid.UUID) (*models.News, error) {
	return r.setStatus(ctx, id, models.NewsStatusPublished)
}

// Unpublish returns an article to draft.
func (r *NewsRepository) Unpublish(ctx context.Context, id uuid.UUID) (*models.News, error) {
	return r.setStatus(ctx, id, models.NewsStatusDraft)
}

func (r *NewsRepository) setStatus(ctx context.Context, id uuid.UUID, status models.NewsStatus) (*models.News, error) {
	updates := map[string]any{"status": status}
	if status == models.NewsStatusPublished {
		updates["published_at"] = sqlExpr("COALESCE(published_at, NOW())")
	}

	query, args, err := buildUpdateQuery("news", id, updates, newsColumns)
	if err != nil {
		return nil, err
	}

	news := &models.News{}
	if err = r.db.QueryRowxContext(ctx, query, args...).StructScan(news); err != nil {
		return nil, mapError(err, "update news status")
	}
	return news, nil
}

// PublishDue publishes scheduled articles whose publish_at has passed and
// returns their IDs.
func (r *NewsRepository) PublishDue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		UPDATE news
		SET status = 'published', published_at = COALESCE(publish_at, $1), updated_at = $1
		WHERE status = 'scheduled' AND publish_at <= $1
		RETURNING id`

	ids := []uuid.UUID{}
	if err := r.db.SelectContext(ctx, &ids, query, now); err != nil {
		return nil, mapError(err, "publish scheduled news")
	}
	return ids, nil
}

// Delete removes an article.
func (r *NewsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return execAffected(ctx, r.db, "delete news", `DELETE FROM news WHERE id = $1`, id)
}

// SearchPublic matches published articles by title or summary.
func (r *NewsRepository) SearchPublic(ctx context.Context, term string, limit int) ([]models.SearchHit, error) {
	var w whereBuilder
	w.raw("status = 'published'")
	w.search(term, "title", "summary")

	query := `SELECT id, slug, title, summary FROM news` + w.sql() + ` ORDER BY published_at DESC` + w.page(Page{Limit: limit})

	var rows []struct {
		ID      uuid.UUID `db:"id"`
		Slug    string    `db:"slug"`
		Title   string    `db:"title"`
		Summary string    `db:"summary"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, mapError(err, "search news")
	}

	hits := make([]models.SearchHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, models.SearchHit{
			Type: models.SearchTypeNews, ID: row.ID.String(), Slug: row.Slug, Title: row.Title, Summary: row.Summary,
		})
	}
	return hits, nil
}
