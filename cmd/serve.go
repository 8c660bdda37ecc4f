package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/mapscraper/internal/bootstrap"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the control-plane HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.Start(cfgFile)
		},
	}
}
