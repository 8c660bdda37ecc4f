package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/mapscraper/internal/client"
	"github.com/jonesrussell/mapscraper/internal/logs"
	"github.com/jonesrussell/mapscraper/internal/models"
)

const defaultWatchLogLines = 50

func watchCommand() *cobra.Command {
	var (
		interval time.Duration
		logLines int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard: status, metrics, and recent logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), interval, logLines)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", client.DefaultPollInterval, "refresh interval")
	cmd.Flags().IntVar(&logLines, "log-lines", defaultWatchLogLines, "log lines fetched per refresh")

	return cmd
}

func runWatch(parent context.Context, interval time.Duration, logLines int) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := newClient()

	statusPoller := client.NewPoller(api.Status, interval)
	metricsPoller := client.NewPoller(api.Metrics, interval)
	if logLines <= 0 {
		logLines = defaultWatchLogLines
	}
	logsPoller := client.NewPoller(func(ctx context.Context) ([]logs.Entry, error) {
		return api.Logs(ctx, logLines)
	}, interval)

	statusPoller.Start(ctx)
	metricsPoller.Start(ctx)
	logsPoller.Start(ctx)
	defer func() {
		statusPoller.Stop()
		metricsPoller.Stop()
		logsPoller.Stop()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			render(statusPoller, metricsPoller, logsPoller)
		}
	}
}

func render(
	statusPoller *client.Poller[*models.JobState],
	metricsPoller *client.Poller[*models.MetricsSnapshot],
	logsPoller *client.Poller[[]logs.Entry],
) {
	// ANSI clear screen + home
	fmt.Print("\033[2J\033[H")

	state, ok := statusPoller.Latest()
	metrics, metricsOK := metricsPoller.Latest()
	if !ok || !metricsOK {
		if err := statusPoller.Err(); err != nil {
			fmt.Printf("waiting for server: %v\n", err)
		} else {
			fmt.Println("waiting for server...")
		}
		return
	}

	renderStatus(state, metrics)

	if err := statusPoller.Err(); err != nil {
		fmt.Println(text.FgYellow.Sprintf("stale since %s: %v",
			statusPoller.LastUpdated().Format("15:04:05"), err))
	}

	entries, _ := logsPoller.Latest()
	if len(entries) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Time", "Level", "Message"})
		for _, entry := range entries {
			t.AppendRow(table.Row{
				entry.Timestamp.Format("15:04:05"),
				entry.Level,
				entry.Message,
			})
		}
		t.Render()
	}
}
