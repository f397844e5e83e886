package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Hayal27/sininning-pro-sub000/internal/database"
)

var (
	migrationsDir string
	downSteps     int
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		Long: `Apply, roll back or inspect schema migrations. Migrations compiled into the
binary are used unless --dir points at a directory of SQL files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "read migrations from this directory instead of the embedded set")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, _ []string, mg *database.Migrator) error {
			return mg.Down(downSteps)
		}),
	}
	down.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, _ []string, mg *database.Migrator) error {
				return mg.Up()
			}),
		},
		down,
		&cobra.Command{
			Use:     "version",
			Aliases: []string{"status"},
			Short:   "Show the applied migration version",
			Args:    cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, _ []string, mg *database.Migrator) error {
				version, dirty, err := mg.Version()
				if err != nil {
					return err
				}
				renderMigrationStatus(cmd.OutOrStdout(), mg.Source(), version, dirty)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the migration version without running migrations",
			Long:  `Force clears a dirty state after a failed migration has been repaired by hand.`,
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, args []string, mg *database.Migrator) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return mg.Force(version)
			}),
		},
	)
	return cmd
}

// withMigrator opens a migrator for the duration of run. Closing the
// migrator also closes the database handle.
func withMigrator(run func(*cobra.Command, []string, *database.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer func() { _ = e.logger.Sync() }()

		mg, err := database.NewMigrator(e.db.DB, migrationsDir, e.logger)
		if err != nil {
			_ = e.db.Close()
			return err
		}
		defer func() { _ = mg.Close() }()

		return run(cmd, args, mg)
	}
}

func renderMigrationStatus(out io.Writer, source string, version uint, dirty bool) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Source", "Version", "Dirty"})
	t.AppendRow(table.Row{source, version, dirty})
	t.Render()
}
