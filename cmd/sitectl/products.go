package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Hayal27/sininning-pro-sub000/internal/export"
)

func productsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Product catalogue helpers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "template <file.xlsx>",
		Short: "Write an empty product import workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeProductTemplate(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
			return nil
		},
	})
	return cmd
}

func writeProductTemplate(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	if err = export.WriteProductTemplate(f); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}
