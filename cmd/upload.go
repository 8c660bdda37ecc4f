package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/mapscraper/internal/models"
)

func uploadCommand() *cobra.Command {
	var (
		mode    string
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a keyword file (.xlsx or .csv)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ingestMode, err := models.ParseIngestMode(mode)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer file.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			result, err := newClient().Upload(ctx, args[0], file, ingestMode, confirm)
			if err != nil {
				return err
			}

			fmt.Println(result.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(models.ModeAdd), "ingestion mode: add, sync, or replace")
	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm destructive replace mode")

	return cmd
}
