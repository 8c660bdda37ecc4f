// Package testhelpers provides shared fixtures for tests.
package testhelpers

import (
	"testing"

	"github.com/jonesrussell/mapscraper/internal/database"
	"github.com/jonesrussell/mapscraper/internal/logger"
)

// NewTestDB opens an isolated in-memory database with the schema
// applied. The database is closed when the test finishes.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(":memory:", logger.NewNop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
