package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/config"
	"github.com/Hayal27/sininning-pro-sub000/internal/database"
)

// SetupDatabase creates a database connection.
func SetupDatabase(cfg *config.Config, log infralogger.Logger) (*sqlx.DB, error) {
	db, err := database.New(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}
	return db, nil
}
