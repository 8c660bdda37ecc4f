// Package database manages the SQLite store backing the keyword registry.
package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/jonesrussell/mapscraper/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS keywords (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	city       TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'pending',
	updated_at TIMESTAMP NOT NULL,
	UNIQUE (text, city)
);

CREATE INDEX IF NOT EXISTS idx_keywords_status ON keywords (status);

CREATE TABLE IF NOT EXISTS upload_history (
	id              TEXT PRIMARY KEY,
	filename        TEXT NOT NULL,
	file_hash       TEXT NOT NULL,
	file_size_bytes INTEGER NOT NULL,
	keywords_count  INTEGER NOT NULL,
	new_keywords    INTEGER NOT NULL,
	mode            TEXT NOT NULL,
	uploaded_at     TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_upload_history_uploaded_at
	ON upload_history (uploaded_at DESC);
`

// DB wraps the SQLite connection.
type DB struct {
	db     *sql.DB
	logger logger.Logger
}

// New opens (creating if needed) the SQLite database at path and ensures
// the schema exists. Use ":memory:" for tests.
func New(path string, log logger.Logger) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_fk=1", path)
	if path == ":memory:" {
		// Each open gets its own named in-memory database so tests
		// stay isolated. Shared cache keeps the schema visible if the
		// pool ever reopens the connection.
		dsn = fmt.Sprintf("file:memdb-%s?mode=memory&cache=shared", uuid.NewString())
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// under concurrent handler and engine writes.
	db.SetMaxOpenConns(1)

	if pingErr := db.Ping(); pingErr != nil {
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	if _, execErr := db.Exec(schema); execErr != nil {
		return nil, fmt.Errorf("create schema: %w", execErr)
	}

	log.Info("Database ready",
		logger.String("path", path),
	)

	return &DB{
		db:     db,
		logger: log,
	}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// DB exposes the raw connection for repositories.
func (d *DB) DB() *sql.DB {
	return d.db
}
