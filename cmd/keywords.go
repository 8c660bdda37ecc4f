package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/mapscraper/internal/client"
	"github.com/jonesrussell/mapscraper/internal/models"
)

func keywordsCommand() *cobra.Command {
	var (
		page   int
		limit  int
		status string
		filter string
	)

	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "List keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			result, err := newClient().Keywords(ctx, page, limit, models.KeywordStatus(status))
			if err != nil {
				return fmt.Errorf("fetch keywords: %w", err)
			}

			items := client.FilterKeywords(result.Items, filter)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Keyword", "City", "Status", "Updated"})
			for _, kw := range items {
				t.AppendRow(table.Row{
					kw.Text, kw.City, kw.Status,
					kw.UpdatedAt.Format("2006-01-02 15:04:05"),
				})
			}
			t.Render()

			fmt.Printf("page %d/%d, %d total\n", result.Page, result.TotalPages, result.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, processing, done, failed, skipped)")
	cmd.Flags().StringVar(&filter, "filter", "", "show only keywords containing this text")

	return cmd
}
