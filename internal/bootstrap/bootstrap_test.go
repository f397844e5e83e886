package bootstrap

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Server: config.ServerConfig{
			Host:          "127.0.0.1",
			Port:          8080,
			ReadTimeout:   time.Second,
			WriteTimeout:  time.Second,
			IdleTimeout:   time.Second,
			PublicBaseURL: "http://localhost:8080",
			UploadDir:     t.TempDir(),
			MaxUploadMB:   1,
		},
		Auth: config.AuthConfig{
			JWTSecret:  "0123456789abcdef0123456789abcdef",
			TokenTTL:   time.Hour,
			BcryptCost: 4,
		},
		Redis:     config.RedisConfig{Enabled: true, CacheTTL: time.Minute},
		Scheduler: config.SchedulerConfig{Enabled: true, NewsPublishSpec: "@every 1m", CareerExpirySpec: "15 0 * * *"},
		RateLimit: config.RateLimitConfig{FormsPerMinute: 5, Burst: 3},
	}
}

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres")
}

func TestNewComponents_WithoutRedis(t *testing.T) {
	app := newComponents(testConfig(t), newTestDB(t), nil, nil, nil, infralogger.NewNop())

	assert.Nil(t, app.cache)
	assert.Nil(t, app.events)
	assert.False(t, app.search.Enabled())
	assert.NotNil(t, app.repos.Dashboard)
}

func TestNewComponents_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	app := newComponents(testConfig(t), newTestDB(t), client, nil, nil, infralogger.NewNop())

	assert.NotNil(t, app.cache)
	assert.NotNil(t, app.events)
	require.NoError(t, redisHealthCheck(client)())
}

func TestComponents_Server(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := newComponents(testConfig(t), newTestDB(t), nil, nil, nil, infralogger.NewNop())
	srv, err := app.server(ctx)
	require.NoError(t, err)

	routes := make(map[string]bool)
	for _, r := range srv.Router().Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	assert.True(t, routes[http.MethodGet+" /health"])
	assert.True(t, routes[http.MethodGet+" /metrics"])
	assert.True(t, routes[http.MethodPost+" /api/v1/contact"])
	assert.True(t, routes[http.MethodGet+" /api/v1/admin/events"])

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, 0, app.broker.ClientCount())
}

func TestComponents_ServerRejectsBadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scheduler.NewsPublishSpec = "every now and then"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := newComponents(cfg, newTestDB(t), nil, nil, nil, infralogger.NewNop())
	_, err := app.server(ctx)
	require.ErrorContains(t, err, "create scheduler")
}
