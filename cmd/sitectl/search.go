package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hayal27/sininning-pro-sub000/internal/bootstrap"
)

var errSearchDisabled = errors.New("elasticsearch is disabled or unreachable; set elasticsearch.enabled and check elasticsearch.url")

func searchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Manage the site search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the database",
		Long: `Rebuild the content index from every active product, published article and
open career. The index is dropped and recreated.`,
		Args: cobra.NoArgs,
		RunE: runReindex,
	})
	return cmd
}

func runReindex(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	_, index := bootstrap.SetupSearchIndex(ctx, e.cfg, e.logger)
	if index == nil {
		return errSearchDisabled
	}

	repos := bootstrap.NewRepositories(e.db, e.logger)
	svc := bootstrap.NewSearchService(repos, index, e.logger)

	count, err := svc.Reindex(ctx, repos.Products, repos.News, repos.Careers)
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents into %s\n", count, index.Name())
	return nil
}
