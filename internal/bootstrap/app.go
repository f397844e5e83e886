// Package bootstrap handles application initialization and lifecycle management
// for the site API.
package bootstrap

import (
	"context"
	"fmt"

	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/profiling"
	"github.com/Hayal27/sininning-pro-sub000/internal/api"
)

const version = "dev"

// Start initializes and starts the site API.
func Start() error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Start profiling (if enabled)
	profiling.StartPprofServer(log)
	profiler, err := profiling.StartPyroscope(api.ServiceName, version, log)
	if err != nil {
		log.Warn("Continuous profiling disabled", infralogger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Phase 3: Setup database
	db, err := SetupDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", infralogger.Error(closeErr))
		}
	}()

	// Phase 4: Optional Redis (cache + event stream) and Elasticsearch
	redisClient := SetupRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}
	esClient, index := SetupSearchIndex(ctx, cfg, log)

	// Phase 5: Wire components, background workers and the HTTP server
	app := newComponents(cfg, db, redisClient, esClient, index, log)
	server, err := app.server(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up server: %w", err)
	}

	log.Info("Starting HTTP server",
		infralogger.String("host", cfg.Server.Host),
		infralogger.Int("port", cfg.Server.Port),
		infralogger.Bool("cache", app.cache != nil),
		infralogger.Bool("search_index", index != nil),
		infralogger.Bool("scheduler", cfg.Scheduler.Enabled),
	)

	if runErr := server.RunWithGracefulShutdown(ctx); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
