package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/mapscraper/internal/models"
)

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show job status and keyword metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			api := newClient()

			state, err := api.Status(ctx)
			if err != nil {
				return fmt.Errorf("fetch status: %w", err)
			}
			metrics, err := api.Metrics(ctx)
			if err != nil {
				return fmt.Errorf("fetch metrics: %w", err)
			}

			renderStatus(state, metrics)
			return nil
		},
	}
}

func renderStatus(state *models.JobState, metrics *models.MetricsSnapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"Status", state.Status})
	if state.CurrentKeyword != "" {
		t.AppendRow(table.Row{"Current keyword", state.CurrentKeyword})
	}
	t.AppendRow(table.Row{"Processed", state.Processed})
	t.AppendRow(table.Row{"Uptime", state.Uptime})
	t.AppendRow(table.Row{"Watchdog restarts", state.WatchdogRestarts})
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Total", "Done", "Pending", "Processing", "Failed", "Skipped"})
	t.AppendRow(table.Row{
		metrics.Total, metrics.Done, metrics.Pending,
		metrics.Processing, metrics.Failed, metrics.Skipped,
	})
	t.Render()
}
