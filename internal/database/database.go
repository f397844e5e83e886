// Package database opens the PostgreSQL pool and runs schema migrations.
package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" //nolint:blankimports // PostgreSQL driver

	infracontext "github.com/Hayal27/sininning-pro-sub000/infrastructure/context"
	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/config"
)

// DriverName is the database/sql driver used everywhere.
const DriverName = "postgres"

// New opens the pool, applies the pool limits and verifies the connection.
func New(cfg config.DatabaseConfig, log infralogger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := infracontext.WithPingTimeout()
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connection established",
		infralogger.String("host", cfg.Host),
		infralogger.Int("port", cfg.Port),
		infralogger.String("dbname", cfg.DBName),
	)

	return db, nil
}

// Ping returns a health check function for the pool.
func Ping(db *sqlx.DB) func() error {
	return func() error {
		ctx, cancel := infracontext.WithPingTimeout()
		defer cancel()
		return db.PingContext(ctx)
	}
}
