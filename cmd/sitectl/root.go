package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	infraconfig "github.com/Hayal27/sininning-pro-sub000/infrastructure/config"
	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/internal/config"
	"github.com/Hayal27/sininning-pro-sub000/internal/database"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables development logging for all commands
	debug bool

	rootCmd = &cobra.Command{
		Use:           "sitectl",
		Short:         "Site API maintenance tool",
		Long:          `sitectl migrates the database, manages staff accounts, seeds demo content and rebuilds the search index.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		infraconfig.GetConfigPath("config.yml"),
		"config file (CONFIG_PATH overrides the default)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		migrateCommand(),
		usersCommand(),
		seedCommand(),
		productsCommand(),
		searchCommand(),
	)
}

// env is what every database-backed command needs.
type env struct {
	cfg    *config.Config
	logger infralogger.Logger
	db     *sqlx.DB
}

func (e *env) Close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	_ = e.logger.Sync()
}

// loadConfig reads the config file. Only the database settings are
// required so commands work without server secrets.
func loadConfig() (*config.Config, infralogger.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if validationErr := cfg.ValidateDatabase(); validationErr != nil {
		return nil, nil, fmt.Errorf("validate config: %w", validationErr)
	}

	logCfg := cfg.Logging
	logCfg.Development = logCfg.Development || debug
	if debug {
		logCfg.Level = "debug"
	}
	log, err := infralogger.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log.With(infralogger.String("service", "sitectl")), nil
}

// openEnv loads the configuration and connects to the database.
func openEnv() (*env, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.Database, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &env{cfg: cfg, logger: log, db: db}, nil
}
