// Package cmd implements the mapscraper command-line interface.
package cmd

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/mapscraper/internal/client"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// serverURL is the control-plane address for client commands.
	serverURL string

	// debug enables debug logging.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "mapscraper",
		Short: "Keyword scraping control plane",
		Long: `mapscraper runs and manages the keyword scraping backend:
the HTTP control plane, keyword ingestion, and the live dashboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", client.DefaultBaseURL, "control plane base URL")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(watchCommand())
	rootCmd.AddCommand(statusCommand())
	rootCmd.AddCommand(keywordsCommand())
	rootCmd.AddCommand(uploadCommand())
	rootCmd.AddCommand(resetCommand())
	rootCmd.AddCommand(controlCommand())
	rootCmd.AddCommand(templateCommand())
}

// newClient builds the API client for client-side commands.
func newClient() *client.Client {
	return client.New(client.WithBaseURL(serverURL))
}

// requestTimeout bounds one-shot CLI requests.
const requestTimeout = 30 * time.Second
