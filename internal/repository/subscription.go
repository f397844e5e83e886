package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const subscriptionColumns = `id, email, name, status, source, subscribed_at, unsubscribed_at, created_at, updated_at`

var subscriptionSortColumns = map[string]string{
	"email":         "email",
	"name":          "name",
	"status":        "status",
	"subscribed_at": "subscribed_at",
	"created_at":    "created_at",
}

// SubscriptionFilter selects newsletter subscribers.
type SubscriptionFilter struct {
	Page
	Sort
	Search string
	Status models.SubscriptionStatus
}

// SubscriptionRepository stores newsletter subscribers.
type SubscriptionRepository struct {
	db     *sqlx.DB
	logger infralogger.Logger
}

// NewSubscriptionRepository creates a SubscriptionRepository.
func NewSubscriptionRepository(db *sqlx.DB, log infralogger.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, logger: log}
}

// Subscribe creates, returns or reactivates the subscriber for req.Email.
// The insert skips on an email conflict, so concurrent first signups for
// one address all succeed.
func (r *SubscriptionRepository) Subscribe(
	ctx context.Context, req *models.SubscribeRequest,
) (*models.Subscription, models.SubscribeOutcome, error) {
	sub := &models.Subscription{}
	var outcome models.SubscribeOutcome

	err := withTx(ctx, r.db, r.logger, func(tx *sqlx.Tx) error {
		now := time.Now()
		insertQuery := `
			INSERT INTO subscriptions (id, email, name, status, source, subscribed_at, created_at, updated_at)
			VALUES ($1, $2, $3, 'active', $4, $5, $5, $5)
			ON CONFLICT (email) DO NOTHING
			RETURNING ` + subscriptionColumns
		err := tx.QueryRowxContext(ctx, insertQuery, uuid.New(), req.Email, req.Name, req.Source, now).StructScan(sub)
		switch {
		case err == nil:
			outcome = models.SubscribeCreated
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return mapError(err, "create subscription")
		}

		lockQuery := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE email = $1 FOR UPDATE`
		if err = tx.GetContext(ctx, sub, lockQuery, req.Email); err != nil {
			return mapError(err, "get subscription")
		}
		if sub.Status == models.SubscriptionActive {
			outcome = models.SubscribeExisting
			return nil
		}

		outcome = models.SubscribeReactivated
		query := `
			UPDATE subscriptions
			SET status = 'active', subscribed_at = NOW(), unsubscribed_at = NULL,
			    name = COALESCE(NULLIF($2, ''), name), updated_at = NOW()
			WHERE id = $1
			RETURNING ` + subscriptionColumns
		if err = tx.QueryRowxContext(ctx, query, sub.ID, req.Name).StructScan(sub); err != nil {
			return mapError(err, "reactivate subscription")
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return sub, outcome, nil
}

// Unsubscribe marks the subscriber unsubscribed. Repeating it keeps the
// original unsubscribed_at.
func (r *SubscriptionRepository) Unsubscribe(ctx context.Context, email string) (*models.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET status = 'unsubscribed', unsubscribed_at = COALESCE(unsubscribed_at, NOW()), updated_at = NOW()
		WHERE email = $1
		RETURNING ` + subscriptionColumns

	sub := &models.Subscription{}
	if err := r.db.QueryRowxContext(ctx, query, email).StructScan(sub); err != nil {
		return nil, mapError(err, "unsubscribe")
	}
	return sub, nil
}

func buildSubscriptionWhere(filter SubscriptionFilter) *whereBuilder {
	w := &whereBuilder{}
	w.search(filter.Search, "email", "name")
	if filter.Status != "" {
		w.eq("status", filter.Status)
	}
	return w
}

// List returns a page of subscribers and the total matching count.
func (r *SubscriptionRepository) List(ctx context.Context, filter SubscriptionFilter) ([]models.Subscription, int, error) {
	w := buildSubscriptionWhere(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM subscriptions`+w.sql(), w.args...); err != nil {
		return nil, 0, mapError(err, "count subscriptions")
	}

	// #nosec G202 -- column names come from the sort whitelist
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions` + w.sql() +
		buildOrder(filter.Sort, subscriptionSortColumns, "subscribed_at", "DESC") + w.page(filter.Page)

	subs := []models.Subscription{}
	if err := r.db.SelectContext(ctx, &subs, query, w.args...); err != nil {
		return nil, 0, mapError(err, "list subscriptions")
	}
	return subs, total, nil
}

// ListForExport returns every subscriber matching filter, ignoring pagination.
func (r *SubscriptionRepository) ListForExport(ctx context.Context, filter SubscriptionFilter) ([]models.Subscription, error) {
	w := buildSubscriptionWhere(filter)
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions` + w.sql() +
		` ORDER BY subscribed_at DESC LIMIT ` + w.arg(maxExportRows)

	subs := []models.Subscription{}
	if err := r.db.SelectContext(ctx, &subs, query, w.args...); err != nil {
		return nil, mapError(err, "export subscriptions")
	}
	return subs, nil
}

// Stats counts subscribers by status.
func (r *SubscriptionRepository) Stats(ctx context.Context) (*models.SubscriptionStats, error) {
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status = 'active') AS active,
		       COUNT(*) FILTER (WHERE status = 'unsubscribed') AS unsubscribed,
		       COUNT(*) FILTER (WHERE status = 'active' AND subscribed_at >= NOW() - INTERVAL '30 days') AS last_30_days
		FROM subscriptions`

	stats := &models.SubscriptionStats{}
	if err := r.db.GetContext(ctx, stats, query); err != nil {
		return nil, mapError(err, "count subscriptions")
	}
	return stats, nil
}

// Delete removes a subscriber.
func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return execAffected(ctx, r.db, "delete subscription", `DELETE FROM subscriptions WHERE id = $1`, id)
}
