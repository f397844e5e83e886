package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/signer"
	"github.com/Hayal27/sininning-pro-sub000/internal/api"
	"github.com/Hayal27/sininning-pro-sub000/internal/auth"
	"github.com/Hayal27/sininning-pro-sub000/internal/config"
	"github.com/Hayal27/sininning-pro-sub000/internal/export"
	"github.com/Hayal27/sininning-pro-sub000/internal/metrics"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
	"github.com/Hayal27/sininning-pro-sub000/internal/search"
	"github.com/Hayal27/sininning-pro-sub000/internal/storage"
)

const (
	testSecret        = "test-secret-key-32-chars-minimum"
	testSigningSecret = "newsletter-signing-secret"
)

var (
	userCols = []string{
		"id", "username", "email", "password_hash", "full_name", "role", "is_active",
		"last_login_at", "created_at", "updated_at",
	}
	heroCols = []string{
		"id", "title", "subtitle", "description", "images", "primary_cta_label", "primary_cta_url",
		"secondary_cta_label", "secondary_cta_url", "display_order", "is_active", "created_at", "updated_at",
	}
	contactCols = []string{
		"id", "name", "email", "phone", "company", "subject", "message", "inquiry_type", "status",
		"priority", "assigned_to", "admin_notes", "ip_address", "user_agent", "resolved_at", "closed_at",
		"created_at", "updated_at",
	}
	subscriptionCols = []string{
		"id", "email", "name", "status", "source", "subscribed_at", "unsubscribed_at", "created_at", "updated_at",
	}
)

type stubFallback struct {
	hits []models.SearchHit
}

func (s stubFallback) SearchPublic(_ context.Context, _ string, limit int) ([]models.SearchHit, error) {
	if len(s.hits) > limit {
		return s.hits[:limit], nil
	}
	return s.hits, nil
}

type testEnv struct {
	router  *gin.Engine
	mock    sqlmock.Sqlmock
	jwt     *auth.JWTManager
	metrics *metrics.Metrics
	signer  *signer.Signer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := sqlx.NewDb(sqlDB, "postgres")
	log := logger.NewNop()
	contacts := repository.NewContactRepository(db, log)

	cfg := &config.Config{
		Server: config.ServerConfig{PublicBaseURL: "https://paint.example"},
	}

	env := &testEnv{
		mock:    mock,
		jwt:     auth.NewJWTManager(testSecret, time.Hour),
		metrics: metrics.NewMetrics(prometheus.NewRegistry()),
		signer:  signer.New(testSigningSecret),
	}

	fallbacks := map[string]search.Fallback{
		models.SearchTypeProduct: stubFallback{hits: []models.SearchHit{
			{Type: models.SearchTypeProduct, ID: uuid.NewString(), Slug: "weatherguard-exterior", Title: "WeatherGuard Exterior"},
		}},
		models.SearchTypeNews: stubFallback{},
	}

	router := api.NewRouter(api.Deps{
		Config:  cfg,
		Version: "test",
		Repos: api.Repositories{
			Users:         repository.NewUserRepository(db, log),
			Heroes:        repository.NewHeroRepository(db),
			Categories:    repository.NewCategoryRepository(db),
			Products:      repository.NewProductRepository(db, log),
			News:          repository.NewNewsRepository(db),
			Careers:       repository.NewCareerRepository(db),
			Offices:       repository.NewOfficeRepository(db, log),
			Contacts:      contacts,
			Subscriptions: repository.NewSubscriptionRepository(db, log),
			Dashboard:     repository.NewDashboardRepository(db, contacts),
		},
		JWT:       env.jwt,
		Passwords: auth.NewPasswordHasher(bcrypt.MinCost),
		Search:    search.NewService(nil, fallbacks, log),
		Signer:    env.signer,
		Uploads:   storage.NewStore(t.TempDir(), 1024),
		Metrics:   env.metrics,
	}, log)
	env.router = router.Handler()

	return env
}

func (e *testEnv) token(t *testing.T, id uuid.UUID, role models.Role) string {
	t.Helper()
	token, _, err := e.jwt.GenerateToken(&models.User{ID: id, Username: "staff", Role: role, IsActive: true})
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, target string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserRoutes_RequireAdmin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/admin/users", nil, env.token(t, uuid.New(), models.RoleEditor))
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestDeleteUser_Self(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	self := uuid.New()
	w := env.do(t, http.MethodDelete, "/api/v1/admin/users/"+self.String(), nil, env.token(t, self, models.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrCannotDeleteSelf.Error(), decode(t, w)["error"])
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetProduct_InvalidID(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/admin/products/not-a-uuid", nil, env.token(t, uuid.New(), models.RoleEditor))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid product ID format", decode(t, w)["error"])
}

func TestUpdateHeroSection_NoFields(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/v1/admin/hero-sections/"+uuid.NewString(),
		map[string]any{}, env.token(t, uuid.New(), models.RoleEditor))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "At least one field must be provided for update", decode(t, w)["error"])
}

func TestGetCategory_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	id := uuid.New()
	env.mock.ExpectQuery("FROM product_categories").WillReturnError(sql.ErrNoRows)

	w := env.do(t, http.MethodGet, "/api/v1/admin/product-categories/"+id.String(), nil,
		env.token(t, uuid.New(), models.RoleEditor))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", decode(t, w)["error"])
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestListPublicHeroSections(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	now := time.Now()
	env.mock.ExpectQuery("FROM hero_sections").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(heroCols).
			AddRow(uuid.NewString(), "Colour your world", "", "", "{/uploads/a.jpg}", "Shop", "/products",
				"", "", 0, true, now, now))

	w := env.do(t, http.MethodGet, "/api/v1/hero-sections", nil, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.InDelta(t, 1, body["count"], 0)
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestLogin(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name       string
		password   string
		active     bool
		wantStatus int
		touch      bool
	}{
		{name: "success", password: "correct-horse", active: true, wantStatus: http.StatusOK, touch: true},
		{name: "wrong password", password: "battery-staple", active: true, wantStatus: http.StatusUnauthorized},
		{name: "inactive user", password: "correct-horse", active: false, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)

			now := time.Now()
			env.mock.ExpectQuery("FROM users").
				WithArgs("admin").
				WillReturnRows(sqlmock.NewRows(userCols).
					AddRow(uuid.NewString(), "admin", "admin@paint.example", string(hash), "Site Admin",
						"admin", tt.active, nil, now, now))
			if tt.touch {
				env.mock.ExpectExec("UPDATE users SET last_login_at").WillReturnResult(sqlmock.NewResult(0, 1))
			}

			w := env.do(t, http.MethodPost, "/api/v1/auth/login",
				map[string]string{"login": " admin ", "password": tt.password}, "")

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			body := decode(t, w)
			if tt.wantStatus == http.StatusOK {
				assert.NotEmpty(t, body["token"])
				assert.InDelta(t, 1, testutil.ToFloat64(env.metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultSuccess)), 0)
			} else {
				assert.Equal(t, "invalid credentials", body["error"])
				assert.InDelta(t, 1, testutil.ToFloat64(env.metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultFailure)), 0)
			}
			require.NoError(t, env.mock.ExpectationsWereMet())
		})
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.mock.ExpectQuery("FROM users").WillReturnError(sql.ErrNoRows)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"login": "ghost", "password": "whatever1"}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decode(t, w)["error"])
}

func contactBody() map[string]string {
	return map[string]string{
		"name":         "Jane Doe",
		"email":        "Jane@Example.com",
		"subject":      "Bulk order",
		"message":      "We need 200 litres of primer.",
		"inquiry_type": "quote",
	}
}

func TestSubmitContact(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	now := time.Now()
	id := uuid.New()
	env.mock.ExpectQuery("INSERT INTO contact_submissions").
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow(id.String(), "Jane Doe", "jane@example.com", "", "", "Bulk order",
				"We need 200 litres of primer.", "quote", "new", "normal", nil, "", "192.0.2.1", "",
				nil, nil, now, now))

	w := env.do(t, http.MethodPost, "/api/v1/contact", contactBody(), "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, id.String(), decode(t, w)["id"])
	assert.InDelta(t, 1, testutil.ToFloat64(env.metrics.ContactSubmissionsTotal.WithLabelValues("quote")), 0)
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestSubmitContact_Honeypot(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	body := contactBody()
	body["website"] = "http://spam.example"

	w := env.do(t, http.MethodPost, "/api/v1/contact", body, "")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, decode(t, w)["id"])
	assert.InDelta(t, 0, testutil.ToFloat64(env.metrics.ContactSubmissionsTotal.WithLabelValues("quote")), 0)
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestSubmitContact_Invalid(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	body := contactBody()
	body["email"] = "not-an-email"

	w := env.do(t, http.MethodPost, "/api/v1/contact", body, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrInvalidEmail.Error(), decode(t, w)["error"])

	delete(body, "message")
	w = env.do(t, http.MethodPost, "/api/v1/contact", body, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request payload", decode(t, w)["error"])
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	t.Run("bad token", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		q := url.Values{"email": {"jane@example.com"}, "token": {"deadbeef"}}
		w := env.do(t, http.MethodGet, "/api/v1/subscriptions/unsubscribe?"+q.Encode(), nil, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("signed link", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		now := time.Now()
		env.mock.ExpectQuery("UPDATE subscriptions").
			WithArgs("jane@example.com").
			WillReturnRows(sqlmock.NewRows(subscriptionCols).
				AddRow(uuid.NewString(), "jane@example.com", "", "unsubscribed", "website", now, now, now, now))

		token := env.signer.Sign(signer.Message("unsubscribe", "jane@example.com"))
		q := url.Values{"email": {"Jane@Example.com"}, "token": {token}}
		w := env.do(t, http.MethodGet, "/api/v1/subscriptions/unsubscribe?"+q.Encode(), nil, "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, env.mock.ExpectationsWereMet())
	})
}

func TestSearchContent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/search?q=weather", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.InDelta(t, 1, decode(t, w)["count"], 0)

	w = env.do(t, http.MethodGet, "/api/v1/search?q=weather&type=recipes", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/search?q=weather&limit=zero", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReindexSearch_Disabled(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/admin/search/reindex", nil, env.token(t, uuid.New(), models.RoleAdmin))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func uploadRequest(t *testing.T, token, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUpload(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.token(t, uuid.New(), models.RoleEditor)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, uploadRequest(t, token, "swatch.png", png))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	stored := decode(t, w)
	fileURL, ok := stored["url"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(fileURL, storage.URLPrefix+"/"), fileURL)
	assert.Equal(t, "image/png", stored["content_type"])

	get := httptest.NewRecorder()
	env.router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, fileURL, http.NoBody))
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "nosniff", get.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, uploadRequest(t, token, "notes.txt", []byte("plain text is not allowed")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, uploadRequest(t, token, "huge.png", append(png, bytes.Repeat([]byte{1}, 2048)...)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDownloadProductTemplate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/admin/products/import/template", nil,
		env.token(t, uuid.New(), models.RoleEditor))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products-template.xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestImportProducts_MissingFile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/admin/products/import", nil,
		env.token(t, uuid.New(), models.RoleEditor))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
