// Package config defines the site API configuration and its defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/Hayal27/sininning-pro-sub000/infrastructure/config"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
)

const (
	defaultServerHost       = "0.0.0.0"
	defaultServerPort       = 8080
	defaultServerTimeout    = 30
	defaultUploadDir        = "uploads"
	defaultMaxUploadMB      = 10
	defaultPublicBaseURL    = "http://localhost:8080"
	defaultDatabasePort     = 5432
	defaultMaxOpenConns     = 25
	defaultMaxIdleConns     = 5
	defaultConnMaxLifetime  = 5
	defaultTokenTTL         = 24 * time.Hour
	defaultBcryptCost       = 12
	defaultRedisAddress     = "localhost:6379"
	defaultCacheTTL         = 5 * time.Minute
	defaultESURL            = "http://localhost:9200"
	defaultESIndexPrefix    = "site"
	defaultNewsPublishSpec  = "@every 1m"
	defaultCareerExpirySpec = "15 0 * * *"
	defaultFormsPerMinute   = 5
	defaultFormBurst        = 3
	minJWTSecretLength      = 32
	minBcryptCost           = 4
	maxBcryptCost           = 31
)

// Config is the full service configuration.
type Config struct {
	Debug         bool                `env:"APP_DEBUG"   yaml:"debug"`
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Redis         RedisConfig         `yaml:"redis"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Newsletter    NewsletterConfig    `yaml:"newsletter"`
	Logging       logger.Config       `yaml:"logging"`
}

// ServerConfig configures the HTTP listener and static content.
type ServerConfig struct {
	Host          string        `env:"SERVER_HOST"     yaml:"host"`
	Port          int           `env:"SERVER_PORT"     yaml:"port"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	CORSOrigins   []string      `env:"CORS_ORIGINS"    yaml:"cors_origins"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" yaml:"public_base_url"`
	ServeSPA      bool          `env:"SERVE_SPA"       yaml:"serve_spa"`
	UploadDir     string        `env:"UPLOAD_DIR"      yaml:"upload_dir"`
	MaxUploadMB   int           `env:"MAX_UPLOAD_MB"   yaml:"max_upload_mb"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	Host            string        `env:"DB_HOST"     yaml:"host"`
	Port            int           `env:"DB_PORT"     yaml:"port"`
	User            string        `env:"DB_USER"     yaml:"user"`
	Password        string        `env:"DB_PASSWORD" yaml:"password"` //nolint:gosec // connection config
	DBName          string        `env:"DB_NAME"     yaml:"dbname"`
	SSLMode         string        `env:"DB_SSLMODE"  yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DSN returns the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the postgres:// form used by golang-migrate.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// AuthConfig configures staff authentication.
type AuthConfig struct {
	JWTSecret  string        `env:"AUTH_JWT_SECRET"  yaml:"jwt_secret"` //nolint:gosec // signing key config
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL"   yaml:"token_ttl"`
	BcryptCost int           `env:"AUTH_BCRYPT_COST" yaml:"bcrypt_cost"`
}

// RedisConfig configures the response cache and event stream.
type RedisConfig struct {
	Address  string        `env:"REDIS_ADDRESS"   yaml:"address"`
	Password string        `env:"REDIS_PASSWORD"  yaml:"password"` //nolint:gosec // connection config
	DB       int           `env:"REDIS_DB"        yaml:"db"`
	Enabled  bool          `env:"REDIS_ENABLED"   yaml:"enabled"`
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL" yaml:"cache_ttl"`
}

// ElasticsearchConfig configures site search.
type ElasticsearchConfig struct {
	URL         string `env:"ELASTICSEARCH_URL"          yaml:"url"`
	Username    string `env:"ELASTICSEARCH_USERNAME"     yaml:"username"`
	Password    string `env:"ELASTICSEARCH_PASSWORD"     yaml:"password"` //nolint:gosec // connection config
	IndexPrefix string `env:"ELASTICSEARCH_INDEX_PREFIX" yaml:"index_prefix"`
	Enabled     bool   `env:"ELASTICSEARCH_ENABLED"      yaml:"enabled"`
}

// IndexName is the content index searched by the site.
func (e ElasticsearchConfig) IndexName() string {
	return e.IndexPrefix + "-content"
}

// SchedulerConfig configures background jobs.
type SchedulerConfig struct {
	Enabled          bool   `env:"SCHEDULER_ENABLED"            yaml:"enabled"`
	NewsPublishSpec  string `env:"SCHEDULER_NEWS_PUBLISH_SPEC"  yaml:"news_publish_spec"`
	CareerExpirySpec string `env:"SCHEDULER_CAREER_EXPIRY_SPEC" yaml:"career_expiry_spec"`
}

// RateLimitConfig limits public form submissions per client IP.
type RateLimitConfig struct {
	FormsPerMinute int `env:"RATE_LIMIT_FORMS_PER_MINUTE" yaml:"forms_per_minute"`
	Burst          int `env:"RATE_LIMIT_BURST"            yaml:"burst"`
}

// NewsletterConfig holds the unsubscribe link signing key.
type NewsletterConfig struct {
	SigningSecret string `env:"NEWSLETTER_SIGNING_SECRET" yaml:"signing_secret"` //nolint:gosec // signing key config
}

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults(path, setDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error

	errs = append(errs,
		infraconfig.Required("server.host", c.Server.Host),
		infraconfig.Port("server.port", c.Server.Port),
		c.ValidateDatabase(),
		infraconfig.Required("auth.jwt_secret", c.Auth.JWTSecret),
	)

	if c.Auth.JWTSecret != "" {
		errs = append(errs, infraconfig.MinLength("auth.jwt_secret", c.Auth.JWTSecret, minJWTSecretLength))
	}
	if c.Auth.BcryptCost < minBcryptCost || c.Auth.BcryptCost > maxBcryptCost {
		errs = append(errs, errors.New("auth.bcrypt_cost must be between 4 and 31"))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("server.max_upload_mb must be positive"))
	}
	if c.Redis.Enabled {
		errs = append(errs, infraconfig.Required("redis.address", c.Redis.Address))
	}
	if c.Elasticsearch.Enabled {
		errs = append(errs, infraconfig.Required("elasticsearch.url", c.Elasticsearch.URL))
	}

	return infraconfig.Collect(errs...)
}

// ValidateDatabase checks only the connection settings. sitectl uses it so
// maintenance commands run without the server secrets.
func (c *Config) ValidateDatabase() error {
	return infraconfig.Collect(
		infraconfig.Required("database.host", c.Database.Host),
		infraconfig.Port("database.port", c.Database.Port),
		infraconfig.Required("database.user", c.Database.User),
		infraconfig.Required("database.dbname", c.Database.DBName),
	)
}

// SigningSecret returns the newsletter signing secret, falling back to the
// JWT secret so a single secret is enough for small deployments.
func (c *Config) SigningSecret() string {
	if c.Newsletter.SigningSecret != "" {
		return c.Newsletter.SigningSecret
	}
	return c.Auth.JWTSecret
}

func setDefaults(cfg *Config) {
	setServerDefaults(&cfg.Server)
	setDatabaseDefaults(&cfg.Database)

	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = defaultBcryptCost
	}

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Redis.CacheTTL == 0 {
		cfg.Redis.CacheTTL = defaultCacheTTL
	}

	if cfg.Elasticsearch.URL == "" {
		cfg.Elasticsearch.URL = defaultESURL
	}
	if cfg.Elasticsearch.IndexPrefix == "" {
		cfg.Elasticsearch.IndexPrefix = defaultESIndexPrefix
	}

	if cfg.Scheduler.NewsPublishSpec == "" {
		cfg.Scheduler.NewsPublishSpec = defaultNewsPublishSpec
	}
	if cfg.Scheduler.CareerExpirySpec == "" {
		cfg.Scheduler.CareerExpirySpec = defaultCareerExpirySpec
	}

	if cfg.RateLimit.FormsPerMinute == 0 {
		cfg.RateLimit.FormsPerMinute = defaultFormsPerMinute
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = defaultFormBurst
	}

	cfg.Logging.SetDefaults()
	if cfg.Debug {
		cfg.Logging.Development = true
	}
}

func setServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = defaultServerHost
	}
	if s.Port == 0 {
		s.Port = defaultServerPort
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = defaultServerTimeout * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 2 * defaultServerTimeout * time.Second
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = 4 * defaultServerTimeout * time.Second
	}
	if len(s.CORSOrigins) == 0 {
		s.CORSOrigins = []string{
			"http://localhost:5173", // public site dev server
			"http://localhost:5174", // admin dashboard dev server
		}
	}
	if s.PublicBaseURL == "" {
		s.PublicBaseURL = defaultPublicBaseURL
	}
	if s.UploadDir == "" {
		s.UploadDir = defaultUploadDir
	}
	if s.MaxUploadMB == 0 {
		s.MaxUploadMB = defaultMaxUploadMB
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = "localhost"
	}
	if d.Port == 0 {
		d.Port = defaultDatabasePort
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.MaxOpenConns == 0 {
		d.MaxOpenConns = defaultMaxOpenConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = defaultConnMaxLifetime * time.Minute
	}
}
