package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/middleware"
)

func TestIPRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := middleware.NewIPRateLimiter(6, 2, logger.NewNop())
	limiter.SetClock(func() time.Time { return now })

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, limiter.Allow("10.0.0.2"), "other clients have their own bucket")

	now = now.Add(10 * time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"), "one token refills every 10s")
}

func TestIPRateLimiter_Sweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := middleware.NewIPRateLimiter(5, 5, logger.NewNop())
	limiter.SetClock(func() time.Time { return now })

	limiter.Allow("10.0.0.1")
	now = now.Add(9 * time.Minute)
	limiter.Allow("10.0.0.2")
	now = now.Add(2 * time.Minute)

	assert.Equal(t, 1, limiter.Sweep())
	assert.Equal(t, 1, limiter.Len())
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	limiter := middleware.NewIPRateLimiter(60, 1, logger.NewNop())

	router := gin.New()
	router.POST("/contact", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/contact", http.NoBody))
	assert.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/contact", http.NoBody))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
}
