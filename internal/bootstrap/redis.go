package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"

	infracontext "github.com/Hayal27/sininning-pro-sub000/infrastructure/context"
	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	infraredis "github.com/Hayal27/sininning-pro-sub000/infrastructure/redis"
	"github.com/Hayal27/sininning-pro-sub000/internal/config"
)

// SetupRedis connects to Redis when it is enabled. Returns nil if Redis is
// disabled or unavailable; the cache and event stream are then skipped.
func SetupRedis(ctx context.Context, cfg *config.Config, log infralogger.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	client, err := infraredis.NewClient(ctx, infraredis.Config{
		Address:     cfg.Redis.Address,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PingTimeout: infracontext.DefaultPingTimeout,
	}, log)
	if err != nil {
		log.Warn("Redis not available, cache and events disabled",
			infralogger.Error(err),
		)
		return nil
	}

	log.Info("Redis connected",
		infralogger.String("redis_address", cfg.Redis.Address),
	)
	return client
}

// redisHealthCheck pings Redis for /health.
func redisHealthCheck(client *redis.Client) func() error {
	return func() error {
		return infraredis.Ping(context.Background(), client, infracontext.DefaultPingTimeout)
	}
}
