package persistence

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the local SQLite database connection
type DB struct {
	*sql.DB
}

// NewSQLiteDB opens (and creates if missing) the local database
func NewSQLiteDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{db}, nil
}

// Migrate creates the schema. The local store is a keyed blob store: one row
// per entry, the collection and the sync endpoint each live under one key.
func (db *DB) Migrate() error {
	migration := `
CREATE TABLE IF NOT EXISTS app_state (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
