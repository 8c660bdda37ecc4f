// Package bootstrap handles application initialization and lifecycle
// management for the control-plane server.
package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/mapscraper/internal/config"
	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/logs"
)

const version = "dev"

// Start initializes and runs the server until shutdown.
func Start(configPath string) error {
	// Phase 1: Load config, create the log buffer and logger. The
	// logger tees into the buffer so /logs shows service output.
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logBuffer := logs.NewBuffer(cfg.Logs.BufferSize)

	log, err := CreateLogger(cfg, logBuffer, version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Setup database
	db, err := SetupDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}()

	// Phase 3: Setup event publisher (optional)
	publisher := SetupEventPublisher(cfg, log)

	// Phase 4: Setup scraper engine and HTTP server
	server, engine := SetupHTTPServer(cfg, db, logBuffer, publisher, log)

	log.Info("Starting HTTP server",
		logger.String("host", cfg.Server.Host),
		logger.Int("port", cfg.Server.Port),
	)

	if runErr := Run(server, engine, cfg, log); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}

// CreateLogger creates the service logger, mirroring entries at info
// level and above into the dashboard log buffer.
func CreateLogger(cfg *config.Config, buffer *logs.Buffer, ver string) (logger.Logger, error) {
	log, err := logger.NewWithCore(cfg.Debug, logs.NewCore(buffer, logs.MinTeeLevel))
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		logger.String("service", "mapscraper"),
		logger.String("version", ver),
	), nil
}
