package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/mapscraper/internal/config"
	"github.com/jonesrussell/mapscraper/internal/database"
	"github.com/jonesrussell/mapscraper/internal/logger"
)

// SetupDatabase opens the SQLite database and applies the schema.
func SetupDatabase(cfg *config.Config, log logger.Logger) (*database.DB, error) {
	db, err := database.New(cfg.Database.Path, log)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}
	return db, nil
}
