package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const recentContactsLimit = 5

// DashboardRepository aggregates counts for the admin landing page.
type DashboardRepository struct {
	db       *sqlx.DB
	contacts *ContactRepository
}

// NewDashboardRepository creates a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB, contacts *ContactRepository) *DashboardRepository {
	return &DashboardRepository{db: db, contacts: contacts}
}

// Summary returns content counts, inbox counts and the latest submissions.
func (r *DashboardRepository) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	var counts struct {
		Products          int64 `db:"products"`
		PublishedNews     int64 `db:"published_news"`
		OpenCareers       int64 `db:"open_careers"`
		Offices           int64 `db:"offices"`
		ActiveSubscribers int64 `db:"active_subscribers"`
	}
	query := `
		SELECT
			(SELECT COUNT(*) FROM products) AS products,
			(SELECT COUNT(*) FROM news WHERE status = 'published') AS published_news,
			(SELECT COUNT(*) FROM careers WHERE status = 'open') AS open_careers,
			(SELECT COUNT(*) FROM offices) AS offices,
			(SELECT COUNT(*) FROM subscriptions WHERE status = 'active') AS active_subscribers`
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, mapError(err, "count dashboard totals")
	}

	stats, err := r.contacts.Stats(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := r.contacts.Recent(ctx, recentContactsLimit)
	if err != nil {
		return nil, err
	}

	return &models.DashboardSummary{
		Products:          counts.Products,
		PublishedNews:     counts.PublishedNews,
		OpenCareers:       counts.OpenCareers,
		Offices:           counts.Offices,
		ActiveSubscribers: counts.ActiveSubscribers,
		ContactsByStatus:  stats.ByStatus,
		RecentContacts:    recent,
	}, nil
}
