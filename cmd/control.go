package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/mapscraper/internal/models"
)

func controlCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "control {start|stop|pause|resume}",
		Short:     "Control the scraper job",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"start", "stop", "pause", "resume"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := models.ParseControlAction(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			result, err := newClient().Control(ctx, action)
			if err != nil {
				return err
			}

			fmt.Println(result.Message)
			return nil
		},
	}
}
