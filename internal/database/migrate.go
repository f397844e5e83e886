package database

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:blankimports // File source driver
	"github.com/golang-migrate/migrate/v4/source/iofs"

	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/migrations"
)

// Migrator applies the schema migrations.
type Migrator struct {
	m      *migrate.Migrate
	source string
	logger infralogger.Logger
}

// NewMigrator builds a migrator on db. An empty dir uses the migrations
// compiled into the binary; otherwise SQL files are read from dir.
func NewMigrator(db *sql.DB, dir string, log infralogger.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}

	var (
		m      *migrate.Migrate
		source string
	)
	if dir == "" {
		src, srcErr := iofs.New(migrations.FS, ".")
		if srcErr != nil {
			return nil, fmt.Errorf("open embedded migrations: %w", srcErr)
		}
		source = "embedded"
		m, err = migrate.NewWithInstance("iofs", src, DriverName, driver)
	} else {
		if absPath, absErr := filepath.Abs(dir); absErr == nil {
			dir = absPath
		}
		source = "file://" + dir
		m, err = migrate.NewWithDatabaseInstance(source, DriverName, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return &Migrator{m: m, source: source, logger: log}, nil
}

// Up applies all pending migrations.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("No pending migrations", infralogger.String("source", mg.source))
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	mg.logger.Info("Migrations applied successfully", infralogger.String("source", mg.source))
	return nil
}

// Down rolls back steps migrations (at least one).
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		steps = 1
	}

	if err := mg.m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("No migrations to rollback", infralogger.String("source", mg.source))
			return nil
		}
		return fmt.Errorf("rollback migrations: %w", err)
	}

	mg.logger.Info("Migrations rolled back successfully",
		infralogger.String("source", mg.source),
		infralogger.Int("steps", steps),
	)
	return nil
}

// Version returns the applied version. A fresh database reports 0.
func (mg *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = mg.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the version without running migrations, clearing a dirty state.
func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force migration version: %w", err)
	}

	mg.logger.Info("Migration version forced",
		infralogger.String("source", mg.source),
		infralogger.Int("version", version),
	)
	return nil
}

// Close releases the source and closes the database handle.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Source describes where migrations are read from.
func (mg *Migrator) Source() string {
	return mg.source
}
