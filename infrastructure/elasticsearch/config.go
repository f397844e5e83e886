package elasticsearch

import (
	"time"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/retry"
)

const (
	defaultURL         = "http://localhost:9200"
	defaultMaxRetries  = 3
	defaultPingTimeout = 5 * time.Second
)

// Config holds Elasticsearch client configuration
type Config struct {
	// URL is the Elasticsearch server URL (e.g., http://elasticsearch:9200)
	URL string

	// Username and Password enable basic auth when both are set
	Username string
	Password string

	// MaxRetries is the maximum number of retries for client operations (default: 3)
	MaxRetries int

	// PingTimeout is the timeout for ping verification (default: 5s)
	PingTimeout time.Duration

	// RetryConfig controls connection verification.
	// If nil, 5 attempts starting at 2s and capped at 10s are used.
	RetryConfig *retry.Config
}

// SetDefaults applies default values to the config if not set
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = defaultPingTimeout
	}
	if c.RetryConfig == nil {
		c.RetryConfig = &retry.Config{
			MaxAttempts:  5,
			InitialDelay: 2 * time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
			IsRetryable:  retry.DefaultIsRetryable,
		}
	}
}
