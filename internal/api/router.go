// Package api exposes the site REST API consumed by the public site and the
// admin dashboard.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	infragin "github.com/Hayal27/sininning-pro-sub000/infrastructure/gin"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/signer"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/sse"
	"github.com/Hayal27/sininning-pro-sub000/internal/auth"
	"github.com/Hayal27/sininning-pro-sub000/internal/cache"
	"github.com/Hayal27/sininning-pro-sub000/internal/config"
	"github.com/Hayal27/sininning-pro-sub000/internal/events"
	"github.com/Hayal27/sininning-pro-sub000/internal/metrics"
	"github.com/Hayal27/sininning-pro-sub000/internal/middleware"
	"github.com/Hayal27/sininning-pro-sub000/internal/models"
	"github.com/Hayal27/sininning-pro-sub000/internal/repository"
	"github.com/Hayal27/sininning-pro-sub000/internal/search"
	"github.com/Hayal27/sininning-pro-sub000/internal/storage"
	"github.com/Hayal27/sininning-pro-sub000/web"
)

// ServiceName identifies the API in logs, health output and profiles.
const ServiceName = "site-api"

// Repositories groups the data access layer.
type Repositories struct {
	Users         *repository.UserRepository
	Heroes        *repository.HeroRepository
	Categories    *repository.CategoryRepository
	Products      *repository.ProductRepository
	News          *repository.NewsRepository
	Careers       *repository.CareerRepository
	Offices       *repository.OfficeRepository
	Contacts      *repository.ContactRepository
	Subscriptions *repository.SubscriptionRepository
	Dashboard     *repository.DashboardRepository
}

// HealthChecks are the dependency probes reported by /health. Nil probes
// are skipped.
type HealthChecks struct {
	Database      func() error
	Redis         func() error
	Elasticsearch func() error
}

// Deps holds everything the handlers need. Cache, Events and Broker may be
// nil when Redis or live notifications are disabled.
type Deps struct {
	Config       *config.Config
	Version      string
	Repos        Repositories
	JWT          *auth.JWTManager
	Passwords    *auth.PasswordHasher
	Search       *search.Service
	Cache        *cache.Cache
	Events       *events.Publisher
	Broker       sse.Broker
	Signer       *signer.Signer
	Uploads      *storage.Store
	FormLimiter  *middleware.IPRateLimiter
	Metrics      *metrics.Metrics
	HealthChecks HealthChecks
}

// Router holds the API dependencies
type Router struct {
	cfg       *config.Config
	version   string
	repos     Repositories
	jwt       *auth.JWTManager
	passwords *auth.PasswordHasher
	search    *search.Service
	cache     *cache.Cache
	events    *events.Publisher
	broker    sse.Broker
	signer    *signer.Signer
	uploads   *storage.Store
	limiter   *middleware.IPRateLimiter
	metrics   *metrics.Metrics
	health    HealthChecks
	logger    logger.Logger
}

// NewRouter creates a new API router
func NewRouter(deps Deps, log logger.Logger) *Router {
	return &Router{
		cfg:       deps.Config,
		version:   deps.Version,
		repos:     deps.Repos,
		jwt:       deps.JWT,
		passwords: deps.Passwords,
		search:    deps.Search,
		cache:     deps.Cache,
		events:    deps.Events,
		broker:    deps.Broker,
		signer:    deps.Signer,
		uploads:   deps.Uploads,
		limiter:   deps.FormLimiter,
		metrics:   deps.Metrics,
		health:    deps.HealthChecks,
		logger:    log,
	}
}

// NewServer creates the HTTP server using the infrastructure gin package.
func (r *Router) NewServer() *infragin.Server {
	srv := r.cfg.Server

	builder := infragin.NewServerBuilder(ServiceName, srv.Port).
		WithLogger(r.logger).
		WithHost(srv.Host).
		WithDebug(r.cfg.Debug).
		WithVersion(r.version).
		WithTimeouts(srv.ReadTimeout, srv.WriteTimeout, srv.IdleTimeout).
		WithCORS(infragin.CORSConfig{
			AllowedOrigins:   srv.CORSOrigins,
			AllowCredentials: true,
		}).
		WithMiddleware(r.metrics.Middleware()).
		WithRoutes(r.setupRoutes)

	if r.health.Database != nil {
		builder.WithDatabaseHealthCheck(r.health.Database)
	}
	if r.health.Redis != nil {
		builder.WithRedisHealthCheck(r.health.Redis)
	}
	if r.health.Elasticsearch != nil {
		builder.WithElasticsearchHealthCheck(r.health.Elasticsearch)
	}

	return builder.Build()
}

// Handler returns a bare engine with the API routes, for tests and tools
// that do not need the server lifecycle.
func (r *Router) Handler() *gin.Engine {
	engine := gin.New()
	engine.Use(
		infragin.RecoveryMiddleware(r.logger),
		infragin.RequestIDLoggerMiddleware(r.logger),
	)
	r.setupRoutes(engine)
	return engine
}

// setupRoutes configures service-specific routes. Health routes are added
// by the infrastructure gin package.
func (r *Router) setupRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	if r.uploads != nil {
		files := router.Group(storage.URLPrefix, uploadHeaders())
		files.StaticFS("/", gin.Dir(r.uploads.Dir(), false))
	}

	v1 := router.Group("/api/v1")
	r.setupPublicRoutes(v1)
	r.setupAdminRoutes(v1)

	if r.cfg.Server.ServeSPA {
		web.Register(router, r.logger)
	}
}

func (r *Router) setupPublicRoutes(v1 *gin.RouterGroup) {
	forms := r.formLimit()

	v1.POST("/auth/login", r.login)

	v1.GET("/hero-sections", r.cache.Middleware(cache.NamespaceHero), r.listPublicHeroSections)
	v1.GET("/product-categories", r.cache.Middleware(cache.NamespaceCategories), r.listPublicCategories)

	products := v1.Group("/products", r.cache.Middleware(cache.NamespaceProducts))
	products.GET("", r.listPublicProducts)
	products.GET("/:slug", r.getPublicProduct)

	// article reads bump view_count, so only the listing is cached
	v1.GET("/news", r.cache.Middleware(cache.NamespaceNews), r.listPublicNews)
	v1.GET("/news/:slug", r.getPublicNews)

	careers := v1.Group("/careers", r.cache.Middleware(cache.NamespaceCareers))
	careers.GET("", r.listPublicCareers)
	careers.GET("/:slug", r.getPublicCareer)

	offices := v1.Group("/offices", r.cache.Middleware(cache.NamespaceOffices))
	offices.GET("", r.listPublicOffices)
	offices.GET("/primary", r.getPrimaryOffice)

	v1.POST("/contact", forms, r.submitContact)

	subscriptions := v1.Group("/subscriptions")
	subscriptions.POST("", forms, r.subscribe)
	subscriptions.POST("/unsubscribe", r.unsubscribe)
	subscriptions.GET("/unsubscribe", r.unsubscribe)

	v1.GET("/search", r.searchContent)
}

func (r *Router) setupAdminRoutes(v1 *gin.RouterGroup) {
	// EventSource cannot send headers, so this route alone takes ?access_token=
	if r.broker != nil {
		v1.GET("/admin/events",
			auth.Middleware(r.jwt, auth.AllowQueryToken()),
			sse.Handler(r.broker, r.logger),
		)
	}

	admin := v1.Group("/admin", auth.Middleware(r.jwt))
	requireAdmin := auth.RequireRole(models.RoleAdmin)

	admin.GET("/auth/me", r.me)
	admin.PUT("/auth/password", r.changePassword)

	users := admin.Group("/users", requireAdmin)
	users.GET("", r.listUsers)
	users.POST("", r.createUser)
	users.GET("/:id", r.getUser)
	users.PUT("/:id", r.updateUser)
	users.DELETE("/:id", r.deleteUser)

	heroes := admin.Group("/hero-sections")
	heroes.GET("", r.listHeroSections)
	heroes.POST("", r.createHeroSection)
	heroes.GET("/:id", r.getHeroSection)
	heroes.PUT("/:id", r.updateHeroSection)
	heroes.DELETE("/:id", r.deleteHeroSection)

	categories := admin.Group("/product-categories")
	categories.GET("", r.listCategories)
	categories.POST("", r.createCategory)
	categories.GET("/:id", r.getCategory)
	categories.PUT("/:id", r.updateCategory)
	categories.DELETE("/:id", r.deleteCategory)

	products := admin.Group("/products")
	products.GET("", r.listProducts)
	products.POST("", r.createProduct)
	products.POST("/import", r.importProducts) // More specific routes before :id
	products.GET("/import/template", r.downloadProductTemplate)
	products.GET("/:id", r.getProduct)
	products.PUT("/:id", r.updateProduct)
	products.DELETE("/:id", r.deleteProduct)

	news := admin.Group("/news")
	news.GET("", r.listNews)
	news.POST("", r.createNews)
	news.GET("/:id", r.getNews)
	news.PUT("/:id", r.updateNews)
	news.DELETE("/:id", r.deleteNews)
	news.POST("/:id/publish", r.publishNews)
	news.POST("/:id/unpublish", r.unpublishNews)

	careers := admin.Group("/careers")
	careers.GET("", r.listCareers)
	careers.POST("", r.createCareer)
	careers.GET("/:id", r.getCareer)
	careers.PUT("/:id", r.updateCareer)
	careers.DELETE("/:id", r.deleteCareer)

	offices := admin.Group("/offices")
	offices.GET("", r.listOffices)
	offices.POST("", r.createOffice)
	offices.GET("/:id", r.getOffice)
	offices.PUT("/:id", r.updateOffice)
	offices.DELETE("/:id", r.deleteOffice)
	offices.POST("/:id/primary", r.setPrimaryOffice)

	contacts := admin.Group("/contacts")
	contacts.GET("", r.listContacts)
	contacts.GET("/stats", r.contactStats)
	contacts.GET("/export", r.exportContacts)
	contacts.GET("/:id", r.getContact)
	contacts.PATCH("/:id", r.updateContact)
	contacts.DELETE("/:id", r.deleteContact)

	subscriptions := admin.Group("/subscriptions")
	subscriptions.GET("", r.listSubscriptions)
	subscriptions.GET("/stats", r.subscriptionStats)
	subscriptions.GET("/export", r.exportSubscriptions)
	subscriptions.DELETE("/:id", r.deleteSubscription)

	admin.POST("/uploads", r.upload)
	admin.GET("/dashboard", r.dashboard)
	admin.POST("/search/reindex", requireAdmin, r.reindexSearch)
}

func (r *Router) formLimit() gin.HandlerFunc {
	if r.limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return r.limiter.Middleware()
}

// uploadHeaders keeps browsers from sniffing or running uploaded files,
// since SVG may carry script.
func uploadHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.AbortWithStatus(http.StatusMethodNotAllowed)
			return
		}
		c.Next()
	}
}
