package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hayal27/sininning-pro-sub000/internal/auth"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

const testSecret = "a-very-long-test-secret-of-32-bytes!"

func testUser(role models.Role) *models.User {
	return &models.User{ID: uuid.New(), Username: "editor1", Role: role}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager(testSecret, time.Hour)
	user := testUser(models.RoleEditor)

	token, expiresAt, err := manager.GenerateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Sub)
	assert.Equal(t, "editor1", claims.Username)
	assert.Equal(t, models.RoleEditor, claims.Role)
	require.NotNil(t, claims.NotBefore)
	require.NotNil(t, claims.IssuedAt)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestJWTManager_Rejects(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager(testSecret, time.Hour)

	expired, _, err := auth.NewJWTManager(testSecret, -time.Minute).GenerateToken(testUser(models.RoleAdmin))
	require.NoError(t, err)

	otherKey, _, err := auth.NewJWTManager("another-secret-another-secret-123", time.Hour).GenerateToken(testUser(models.RoleAdmin))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.Claims{Sub: uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expired},
		{name: "wrong key", token: otherKey},
		{name: "alg none", token: none},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := manager.ValidateToken(tc.token)
			require.ErrorIs(t, err, models.ErrInvalidToken)
		})
	}
}

func TestPasswordHasher(t *testing.T) {
	t.Parallel()

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, hasher.Check(hash, "correct horse"))
	assert.False(t, hasher.Check(hash, "wrong horse"))

	hasher.Burn("anything")
}

func newAuthRouter(manager *auth.JWTManager, opts ...auth.MiddlewareOption) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	admin := router.Group("/admin", auth.Middleware(manager, opts...))
	admin.GET("/me", func(c *gin.Context) {
		claims, _ := auth.GetClaims(c)
		c.String(http.StatusOK, claims.Username)
	})
	admin.GET("/users", auth.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager(testSecret, time.Hour)
	editorToken, _, err := manager.GenerateToken(testUser(models.RoleEditor))
	require.NoError(t, err)
	adminToken, _, err := manager.GenerateToken(testUser(models.RoleAdmin))
	require.NoError(t, err)

	testCases := []struct {
		name       string
		path       string
		header     string
		allowQuery bool
		wantCode   int
	}{
		{name: "missing header", path: "/admin/me", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/admin/me", header: "Basic " + editorToken, wantCode: http.StatusUnauthorized},
		{name: "bad token", path: "/admin/me", header: "Bearer nope", wantCode: http.StatusUnauthorized},
		{name: "valid bearer", path: "/admin/me", header: "Bearer " + editorToken, wantCode: http.StatusOK},
		{name: "query token refused", path: "/admin/me?access_token=" + editorToken, wantCode: http.StatusUnauthorized},
		{name: "query token allowed", path: "/admin/me?access_token=" + editorToken, allowQuery: true, wantCode: http.StatusOK},
		{name: "editor forbidden", path: "/admin/users", header: "Bearer " + editorToken, wantCode: http.StatusForbidden},
		{name: "admin allowed", path: "/admin/users", header: "Bearer " + adminToken, wantCode: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var opts []auth.MiddlewareOption
			if tc.allowQuery {
				opts = append(opts, auth.AllowQueryToken())
			}
			router := newAuthRouter(manager, opts...)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}
