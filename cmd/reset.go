package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/mapscraper/internal/models"
)

func resetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "reset {failed|skipped|all}",
		Short:     "Reset keywords back to pending",
		Long:      `Reset keywords back to pending so the scraper retries them. Completed keywords are never reset.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"failed", "skipped", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			api := newClient()

			var result *models.OperationResult
			var err error
			switch args[0] {
			case "failed":
				result, err = api.ResetFailed(ctx)
			case "skipped":
				result, err = api.ResetSkipped(ctx)
			case "all":
				result, err = api.ResetAll(ctx)
			default:
				return fmt.Errorf("unknown reset target %q", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Println(result.Message)
			return nil
		},
	}

	return cmd
}
