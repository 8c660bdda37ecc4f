package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/mapscraper/internal/importer"
)

func templateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an example keyword upload file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := importer.WriteTemplate(output); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			fmt.Printf("Template written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "keywords_template.xlsx", "output path")

	return cmd
}
