package api_test

import (
	"database/sql"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

var (
	officeCols = []string{
		"id", "name", "address_line", "city", "region", "country", "postal_code", "phone", "email",
		"latitude", "longitude", "opening_hours", "map_url", "is_primary", "is_active", "display_order",
		"created_at", "updated_at",
	}
	newsCols = []string{
		"id", "title", "slug", "summary", "content", "cover_image", "category", "tags", "author_id", "status",
		"publish_at", "published_at", "view_count", "reading_minutes", "created_at", "updated_at",
	}
	careerCols = []string{
		"id", "title", "slug", "department", "location", "employment_type", "summary", "description",
		"responsibilities", "requirements", "salary_range", "deadline", "status", "created_at", "updated_at",
	}
)

const careerVisibleClause = "status = 'open' AND (deadline IS NULL OR deadline >= CURRENT_DATE)"

func contactRow(id uuid.UUID, status models.ContactStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(contactCols).
		AddRow(id.String(), "Jane Doe", "jane@example.com", "", "", "Bulk order", "We need primer.",
			"quote", string(status), "normal", nil, "", "192.0.2.1", "", nil, nil, now, now)
}

func TestUpdateContact_Workflow(t *testing.T) {
	t.Parallel()

	lockQuery := regexp.QuoteMeta("SELECT status FROM contact_submissions WHERE id = $1 FOR UPDATE")

	tests := []struct {
		name       string
		current    models.ContactStatus
		body       map[string]any
		wantStatus int
		wantError  string
		wantUpdate string
	}{
		{
			name:       "new cannot jump to resolved",
			current:    models.ContactStatusNew,
			body:       map[string]any{"status": "resolved"},
			wantStatus: http.StatusConflict,
			wantError:  models.ErrInvalidStatusTransition.Error(),
		},
		{
			name:       "closed is terminal",
			current:    models.ContactStatusClosed,
			body:       map[string]any{"status": "in_progress"},
			wantStatus: http.StatusConflict,
			wantError:  models.ErrInvalidStatusTransition.Error(),
		},
		{
			name:       "priority frozen once closed",
			current:    models.ContactStatusClosed,
			body:       map[string]any{"priority": "high"},
			wantStatus: http.StatusConflict,
			wantError:  models.ErrContactClosed.Error(),
		},
		{
			name:       "same status only touches updated_at",
			current:    models.ContactStatusInProgress,
			body:       map[string]any{"status": "in_progress"},
			wantStatus: http.StatusOK,
			wantUpdate: "SET status = $1, updated_at = $2",
		},
		{
			name:       "resolving stamps resolved_at",
			current:    models.ContactStatusInProgress,
			body:       map[string]any{"status": "resolved"},
			wantStatus: http.StatusOK,
			wantUpdate: "SET resolved_at = NOW(), status = $1, updated_at = $2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)

			id := uuid.New()
			env.mock.ExpectBegin()
			env.mock.ExpectQuery(lockQuery).
				WithArgs(id).
				WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(string(tt.current)))

			after := tt.current
			if status, ok := tt.body["status"].(string); ok {
				after = models.ContactStatus(status)
			}
			if tt.wantUpdate != "" {
				env.mock.ExpectQuery(regexp.QuoteMeta(tt.wantUpdate)).WillReturnRows(contactRow(id, after))
				env.mock.ExpectCommit()
			} else {
				env.mock.ExpectRollback()
			}

			w := env.do(t, http.MethodPatch, "/api/v1/admin/contacts/"+id.String(), tt.body,
				env.token(t, uuid.New(), models.RoleEditor))

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			body := decode(t, w)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				assert.Equal(t, string(after), body["status"])
			}
			require.NoError(t, env.mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateContact_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("SELECT status FROM contact_submissions").WillReturnError(sql.ErrNoRows)
	env.mock.ExpectRollback()

	w := env.do(t, http.MethodPatch, "/api/v1/admin/contacts/"+uuid.NewString(),
		map[string]any{"status": "closed"}, env.token(t, uuid.New(), models.RoleEditor))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Contact submission not found", decode(t, w)["error"])
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestSubmitContact_PaddedEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	now := time.Now()
	env.mock.ExpectQuery("INSERT INTO contact_submissions").
		WithArgs(sqlmock.AnyArg(), "Jane Doe", "jane@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow(uuid.NewString(), "Jane Doe", "jane@example.com", "", "", "Bulk order",
				"We need 200 litres of primer.", "quote", "new", "normal", nil, "", "192.0.2.1", "",
				nil, nil, now, now))

	body := contactBody()
	body["email"] = "  Jane@Example.com "
	w := env.do(t, http.MethodPost, "/api/v1/contact", body, "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestSubscribe_Outcomes(t *testing.T) {
	t.Parallel()

	insertQuery := regexp.QuoteMeta("ON CONFLICT (email) DO NOTHING")
	lockQuery := regexp.QuoteMeta("FROM subscriptions WHERE email = $1 FOR UPDATE")

	tests := []struct {
		name        string
		setupMock   func(mock sqlmock.Sqlmock, id uuid.UUID, now time.Time)
		wantStatus  int
		wantMessage string
		wantOutcome string
	}{
		{
			name: "new subscriber",
			setupMock: func(mock sqlmock.Sqlmock, id uuid.UUID, now time.Time) {
				mock.ExpectQuery(insertQuery).
					WithArgs(sqlmock.AnyArg(), "jane@example.com", "Jane", "website", sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows(subscriptionCols).
						AddRow(id.String(), "jane@example.com", "Jane", "active", "website", now, nil, now, now))
			},
			wantStatus:  http.StatusCreated,
			wantMessage: "Subscription successful",
			wantOutcome: string(models.SubscribeCreated),
		},
		{
			name: "already active",
			setupMock: func(mock sqlmock.Sqlmock, id uuid.UUID, now time.Time) {
				mock.ExpectQuery(insertQuery).WillReturnRows(sqlmock.NewRows(subscriptionCols))
				mock.ExpectQuery(lockQuery).
					WithArgs("jane@example.com").
					WillReturnRows(sqlmock.NewRows(subscriptionCols).
						AddRow(id.String(), "jane@example.com", "Jane", "active", "website", now, nil, now, now))
			},
			wantStatus:  http.StatusOK,
			wantMessage: "You are already subscribed",
			wantOutcome: string(models.SubscribeExisting),
		},
		{
			name: "previously unsubscribed",
			setupMock: func(mock sqlmock.Sqlmock, id uuid.UUID, now time.Time) {
				mock.ExpectQuery(insertQuery).WillReturnRows(sqlmock.NewRows(subscriptionCols))
				mock.ExpectQuery(lockQuery).
					WithArgs("jane@example.com").
					WillReturnRows(sqlmock.NewRows(subscriptionCols).
						AddRow(id.String(), "jane@example.com", "Jane", "unsubscribed", "website", now, now, now, now))
				mock.ExpectQuery(regexp.QuoteMeta("SET status = 'active'")).
					WillReturnRows(sqlmock.NewRows(subscriptionCols).
						AddRow(id.String(), "jane@example.com", "Jane", "active", "website", now, nil, now, now))
			},
			wantStatus:  http.StatusOK,
			wantMessage: "Welcome back! Your subscription has been reactivated",
			wantOutcome: string(models.SubscribeReactivated),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)

			env.mock.ExpectBegin()
			tt.setupMock(env.mock, uuid.New(), time.Now())
			env.mock.ExpectCommit()

			w := env.do(t, http.MethodPost, "/api/v1/subscriptions",
				map[string]string{"email": "  Jane@Example.com ", "name": "Jane"}, "")

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantMessage, decode(t, w)["message"])
			assert.InDelta(t, 1, testutil.ToFloat64(env.metrics.SubscriptionsTotal.WithLabelValues(tt.wantOutcome)), 0)
			require.NoError(t, env.mock.ExpectationsWereMet())
		})
	}
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/subscriptions", map[string]string{"email": "  not an email "}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrInvalidEmail.Error(), decode(t, w)["error"])
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func officeRow(id uuid.UUID, primary, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(officeCols).
		AddRow(id.String(), "Head Office", "1 Mill Road", "Riverside", "", "Ethiopia", "", "", "hq@paint.example",
			nil, nil, "", "", primary, active, 0, now, now)
}

func TestSetPrimaryOffice(t *testing.T) {
	t.Parallel()

	clearQuery := regexp.QuoteMeta("UPDATE offices SET is_primary = FALSE, updated_at = NOW() WHERE is_primary AND id <> $1")
	promoteQuery := regexp.QuoteMeta("SET is_primary = $1, updated_at = $2")

	t.Run("demotes the previous primary", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		id := uuid.New()
		env.mock.ExpectBegin()
		env.mock.ExpectExec(clearQuery).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
		env.mock.ExpectQuery(promoteQuery).WillReturnRows(officeRow(id, true, true))
		env.mock.ExpectCommit()

		w := env.do(t, http.MethodPost, "/api/v1/admin/offices/"+id.String()+"/primary", nil,
			env.token(t, uuid.New(), models.RoleEditor))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, true, decode(t, w)["is_primary"])
		require.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("inactive office refused", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		id := uuid.New()
		env.mock.ExpectBegin()
		env.mock.ExpectExec(clearQuery).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
		env.mock.ExpectQuery(promoteQuery).
			WillReturnError(&pq.Error{Code: "23514", Constraint: "offices_primary_active"})
		env.mock.ExpectRollback()

		w := env.do(t, http.MethodPost, "/api/v1/admin/offices/"+id.String()+"/primary", nil,
			env.token(t, uuid.New(), models.RoleEditor))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, models.ErrInactivePrimary.Error(), decode(t, w)["error"])
		require.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("unknown office", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		id := uuid.New()
		env.mock.ExpectBegin()
		env.mock.ExpectExec(clearQuery).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
		env.mock.ExpectQuery(promoteQuery).WillReturnError(sql.ErrNoRows)
		env.mock.ExpectRollback()

		w := env.do(t, http.MethodPost, "/api/v1/admin/offices/"+id.String()+"/primary", nil,
			env.token(t, uuid.New(), models.RoleEditor))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Office not found", decode(t, w)["error"])
		require.NoError(t, env.mock.ExpectationsWereMet())
	})
}

func TestUpdateOffice_InvalidEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/v1/admin/offices/"+uuid.NewString(), map[string]string{"email": "nope"},
		env.token(t, uuid.New(), models.RoleEditor))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request payload", decode(t, w)["error"])
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func newsRow(id uuid.UUID, status models.NewsStatus, publishedAt any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(newsCols).
		AddRow(id.String(), "New colour range", "new-colour-range", "", "<p>Out now</p>", "", "launches", "{}",
			nil, string(status), nil, publishedAt, 0, 1, now, now)
}

func TestPublishNews(t *testing.T) {
	t.Parallel()

	t.Run("publish keeps an earlier published_at", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		id := uuid.New()
		env.mock.ExpectQuery(regexp.QuoteMeta("SET published_at = COALESCE(published_at, NOW()), status = $1, updated_at = $2")).
			WithArgs(models.NewsStatusPublished, sqlmock.AnyArg(), id).
			WillReturnRows(newsRow(id, models.NewsStatusPublished, time.Now()))

		w := env.do(t, http.MethodPost, "/api/v1/admin/news/"+id.String()+"/publish", nil,
			env.token(t, uuid.New(), models.RoleEditor))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, string(models.NewsStatusPublished), body["status"])
		assert.NotNil(t, body["published_at"])
		require.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("unpublish returns to draft", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		id := uuid.New()
		env.mock.ExpectQuery(regexp.QuoteMeta("SET status = $1, updated_at = $2")).
			WithArgs(models.NewsStatusDraft, sqlmock.AnyArg(), id).
			WillReturnRows(newsRow(id, models.NewsStatusDraft, time.Now()))

		w := env.do(t, http.MethodPost, "/api/v1/admin/news/"+id.String()+"/unpublish", nil,
			env.token(t, uuid.New(), models.RoleEditor))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, string(models.NewsStatusDraft), decode(t, w)["status"])
		require.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("unknown article", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		env.mock.ExpectQuery("UPDATE").WillReturnError(sql.ErrNoRows)

		w := env.do(t, http.MethodPost, "/api/v1/admin/news/"+uuid.NewString()+"/publish", nil,
			env.token(t, uuid.New(), models.RoleEditor))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Article not found", decode(t, w)["error"])
		require.NoError(t, env.mock.ExpectationsWereMet())
	})
}

func TestPublicCareers_Visibility(t *testing.T) {
	t.Parallel()

	t.Run("listing only selects visible postings", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		now := time.Now()
		env.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM careers WHERE "+careerVisibleClause+" AND department = $1")).
			WithArgs("Sales").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		env.mock.ExpectQuery(regexp.QuoteMeta("FROM careers WHERE " + careerVisibleClause)).
			WithArgs("Sales", 20, 0).
			WillReturnRows(sqlmock.NewRows(careerCols).
				AddRow(uuid.NewString(), "Sales Rep", "sales-rep", "Sales", "Riverside", "full_time", "", "",
					"{}", "{}", "", nil, "open", now, now))

		w := env.do(t, http.MethodGet, "/api/v1/careers?department=Sales", nil, "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.InDelta(t, 1, body["total"], 0)
		require.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("closed or expired posting is hidden", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		env.mock.ExpectQuery(regexp.QuoteMeta("WHERE slug = $1 AND " + careerVisibleClause)).
			WithArgs("painter").
			WillReturnError(sql.ErrNoRows)

		w := env.do(t, http.MethodGet, "/api/v1/careers/painter", nil, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Career not found", decode(t, w)["error"])
		require.NoError(t, env.mock.ExpectationsWereMet())
	})
}
