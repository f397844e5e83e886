package gin_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ginpkg "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infragin "github.com/Hayal27/sininning-pro-sub000/infrastructure/gin"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
)

func newTestRouter(t *testing.T) *ginpkg.Engine {
	t.Helper()

	ginpkg.SetMode(ginpkg.TestMode)
	router := ginpkg.New()
	router.Use(infragin.RequestIDLoggerMiddleware(logger.NewNop()))
	router.GET("/test", func(c *ginpkg.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestRequestIDLoggerMiddleware_GeneratesID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	router.ServeHTTP(w, req)

	reqID := w.Header().Get(infragin.RequestIDHeader)
	require.NotEmpty(t, reqID)
	assert.Len(t, reqID, 32)
	assert.NotContains(t, reqID, "-")
}

func TestRequestIDLoggerMiddleware_PreservesExistingID(t *testing.T) {
	t.Parallel()

	const inboundID = "trace-from-upstream-abc123"

	ginpkg.SetMode(ginpkg.TestMode)
	router := ginpkg.New()
	router.Use(infragin.RequestIDLoggerMiddleware(logger.NewNop()))

	var gotID string
	var gotLogger bool
	router.GET("/test", func(c *ginpkg.Context) {
		gotID = c.GetString(infragin.RequestIDKey)
		gotLogger = logger.FromContext(c.Request.Context()) != nil
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set(infragin.RequestIDHeader, inboundID)
	router.ServeHTTP(w, req)

	assert.Equal(t, inboundID, w.Header().Get(infragin.RequestIDHeader))
	assert.Equal(t, inboundID, gotID)
	assert.True(t, gotLogger)
}

func TestRequestIDLoggerMiddleware_ReplacesInvalidID(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		inbound string
	}{
		{name: "too long", inbound: strings.Repeat("a", 129)},
		{name: "contains space", inbound: "has space"},
		{name: "control character", inbound: "bad\tid"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(t)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			req.Header.Set(infragin.RequestIDHeader, tc.inbound)
			router.ServeHTTP(w, req)

			got := w.Header().Get(infragin.RequestIDHeader)
			assert.NotEqual(t, tc.inbound, got)
			assert.Len(t, got, 32)
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Parallel()

	ginpkg.SetMode(ginpkg.TestMode)
	router := ginpkg.New()
	router.Use(infragin.RecoveryMiddleware(logger.NewNop()))
	router.GET("/boom", func(*ginpkg.Context) {
		panic(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Equal(t, "Internal server error", body["error"])
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		cfg        infragin.CORSConfig
		origin     string
		wantOrigin string
	}{
		{
			name:       "wildcard without credentials",
			cfg:        infragin.CORSConfig{AllowedOrigins: []string{"*"}},
			origin:     "https://www.paints.test",
			wantOrigin: "*",
		},
		{
			name:       "wildcard with credentials echoes origin",
			cfg:        infragin.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true},
			origin:     "https://www.paints.test",
			wantOrigin: "https://www.paints.test",
		},
		{
			name:       "listed origin",
			cfg:        infragin.CORSConfig{AllowedOrigins: []string{"https://admin.paints.test"}},
			origin:     "https://admin.paints.test",
			wantOrigin: "https://admin.paints.test",
		},
		{
			name:       "unlisted origin",
			cfg:        infragin.CORSConfig{AllowedOrigins: []string{"https://admin.paints.test"}},
			origin:     "https://evil.test",
			wantOrigin: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ginpkg.SetMode(ginpkg.TestMode)
			router := ginpkg.New()
			router.Use(infragin.CORSMiddleware(tc.cfg))
			router.GET("/test", func(c *ginpkg.Context) { c.String(http.StatusOK, "ok") })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			req.Header.Set("Origin", tc.origin)
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServerBuilder_HealthRoutes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		dbErr      error
		redisErr   error
		wantCode   int
		wantStatus infragin.HealthStatus
	}{
		{name: "all healthy", wantCode: http.StatusOK, wantStatus: infragin.HealthStatusHealthy},
		{name: "redis down is degraded", redisErr: errors.New("refused"), wantCode: http.StatusOK, wantStatus: infragin.HealthStatusDegraded},
		{name: "database down is unhealthy", dbErr: errors.New("refused"), wantCode: http.StatusServiceUnavailable, wantStatus: infragin.HealthStatusUnhealthy},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := infragin.NewServerBuilder("site-api", 0).
				WithLogger(logger.NewNop()).
				WithVersion("1.2.3").
				WithDatabaseHealthCheck(func() error { return tc.dbErr }).
				WithRedisHealthCheck(func() error { return tc.redisErr }).
				Build()

			w := httptest.NewRecorder()
			server.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

			assert.Equal(t, tc.wantCode, w.Code)

			var resp infragin.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantStatus, resp.Status)
			assert.Equal(t, "site-api", resp.Service)
			assert.Equal(t, "1.2.3", resp.Version)
			assert.Len(t, resp.Checks, 2)
		})
	}
}

func TestServerBuilder_MemoryRoute(t *testing.T) {
	t.Parallel()

	server := infragin.NewServerBuilder("site-api", 0).WithLogger(logger.NewNop()).Build()

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/memory", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)

	var stats infragin.MemoryStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Positive(t, stats.NumGoroutine)
}
