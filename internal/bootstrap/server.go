package bootstrap

import (
	"context"
	"fmt"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	infragin "github.com/Hayal27/sininning-pro-sub000/infrastructure/gin"
	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/signer"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/sse"
	"github.com/Hayal27/sininning-pro-sub000/internal/api"
	"github.com/Hayal27/sininning-pro-sub000/internal/auth"
	"github.com/Hayal27/sininning-pro-sub000/internal/cache"
	"github.com/Hayal27/sininning-pro-sub000/internal/config"
	"github.com/Hayal27/sininning-pro-sub000/internal/database"
	"github.com/Hayal27/sininning-pro-sub000/internal/events"
	"github.com/Hayal27/sininning-pro-sub000/internal/metrics"
	"github.com/Hayal27/sininning-pro-sub000/internal/middleware"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
	"github.com/Hayal27/sininning-pro-sub000/internal/scheduler"
	"github.com/Hayal27/sininning-pro-sub000/internal/search"
	"github.com/Hayal27/sininning-pro-sub000/internal/storage"
)

const bytesPerMB = 1 << 20

// components are the long-lived collaborators shared by the API and the
// background workers.
type components struct {
	cfg     *config.Config
	db      *sqlx.DB
	redis   *redis.Client
	es      *es.Client
	repos   api.Repositories
	cache   *cache.Cache
	events  *events.Publisher
	search  *search.Service
	metrics *metrics.Metrics
	broker  sse.Broker
	limiter *middleware.IPRateLimiter
	logger  infralogger.Logger
}

// NewRepositories builds the data access layer on db.
func NewRepositories(db *sqlx.DB, log infralogger.Logger) api.Repositories {
	contacts := repository.NewContactRepository(db, log)
	return api.Repositories{
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
	}
}

// NewSearchService wires the database fallbacks behind index, which may be nil.
func NewSearchService(repos api.Repositories, index *search.Index, log infralogger.Logger) *search.Service {
	return search.NewService(index, map[string]search.Fallback{
		models.SearchTypeProduct: repos.Products,
		models.SearchTypeNews:    repos.News,
		models.SearchTypeCareer:  repos.Careers,
	}, log)
}

func newComponents(
	cfg *config.Config,
	db *sqlx.DB,
	redisClient *redis.Client,
	esClient *es.Client,
	index *search.Index,
	log infralogger.Logger,
) *components {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	repos := NewRepositories(db, log)
	app := &components{
		cfg:     cfg,
		db:      db,
		redis:   redisClient,
		es:      esClient,
		repos:   repos,
		search:  NewSearchService(repos, index, log),
		metrics: m,
		broker:  sse.NewBroker(log),
		limiter: middleware.NewIPRateLimiter(cfg.RateLimit.FormsPerMinute, cfg.RateLimit.Burst, log),
		logger:  log,
	}

	if redisClient != nil {
		app.cache = cache.New(redisClient, cfg.Redis.CacheTTL, log, m)
		app.events = events.NewPublisher(redisClient, log)
	}
	return app
}

// server starts the background workers and builds the HTTP server. Workers
// are stopped by shutdown hooks once the server has drained.
func (a *components) server(ctx context.Context) (*infragin.Server, error) {
	if err := a.broker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start event broker: %w", err)
	}
	go a.limiter.RunCleanup(ctx)

	var sched *scheduler.Scheduler
	if a.cfg.Scheduler.Enabled {
		var err error
		sched, err = scheduler.New(a.cfg.Scheduler, scheduler.Deps{
			News:    a.repos.News,
			Careers: a.repos.Careers,
			Cache:   a.cache,
			Search:  a.search,
			Events:  a.events,
			SSE:     a.broker,
			Metrics: a.metrics,
		}, a.logger)
		if err != nil {
			_ = a.broker.Stop()
			return nil, fmt.Errorf("create scheduler: %w", err)
		}
		if err = sched.Start(ctx); err != nil {
			_ = a.broker.Stop()
			return nil, fmt.Errorf("start scheduler: %w", err)
		}
	}

	health := api.HealthChecks{Database: database.Ping(a.db)}
	if a.redis != nil {
		health.Redis = redisHealthCheck(a.redis)
	}
	if a.es != nil {
		health.Elasticsearch = elasticsearchHealthCheck(a.es)
	}

	router := api.NewRouter(api.Deps{
		Config:       a.cfg,
		Version:      version,
		Repos:        a.repos,
		JWT:          auth.NewJWTManager(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL),
		Passwords:    auth.NewPasswordHasher(a.cfg.Auth.BcryptCost),
		Search:       a.search,
		Cache:        a.cache,
		Events:       a.events,
		Broker:       a.broker,
		Signer:       signer.New(a.cfg.SigningSecret()),
		Uploads:      storage.NewStore(a.cfg.Server.UploadDir, int64(a.cfg.Server.MaxUploadMB)*bytesPerMB),
		FormLimiter:  a.limiter,
		Metrics:      a.metrics,
		HealthChecks: health,
	}, a.logger)

	srv := router.NewServer()
	// Hooks run in reverse: the scheduler stops first, the broker last.
	srv.OnShutdown(func() {
		if err := a.broker.Stop(); err != nil {
			a.logger.Warn("Event broker stop failed", infralogger.Error(err))
		}
	})
	srv.OnShutdown(a.search.Wait)
	if sched != nil {
		srv.OnShutdown(sched.Stop)
	}
	return srv, nil
}
