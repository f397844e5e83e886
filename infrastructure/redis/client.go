// Package redis connects the go-redis client shared by the response cache and
// the site event stream.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/retry"
)

const defaultPingTimeout = 2 * time.Second

// ErrEmptyAddress is returned when the Redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

// Config holds Redis connection configuration.
type Config struct {
	Address  string
	Password string
	DB       int

	// PingTimeout bounds each connection check (default: 2s).
	PingTimeout time.Duration

	// Retry controls the startup connection check. Nil uses retry.DefaultConfig.
	Retry *retry.Config
}

// NewClient connects to Redis and retries PING while the server is
// unreachable. ctx bounds the whole attempt.
func NewClient(ctx context.Context, cfg Config, log logger.Logger) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = defaultPingTimeout
	}
	retryCfg := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryCfg = *cfg.Retry
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	attempt := 0
	err := retry.Retry(ctx, retryCfg, func() error {
		attempt++
		pingErr := Ping(ctx, client, cfg.PingTimeout)
		if pingErr != nil {
			log.Debug("Redis ping failed",
				logger.String("address", cfg.Address),
				logger.Int("attempt", attempt),
				logger.Error(pingErr),
			)
		}
		return pingErr
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Ping checks the connection, bounded by timeout when it is positive.
func Ping(ctx context.Context, client redis.UniversalClient, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return client.Ping(ctx).Err()
}
