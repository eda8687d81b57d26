package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
-- Current value of each bound date field
CREATE TABLE IF NOT EXISTS fields (
    name TEXT PRIMARY KEY,
    value TEXT,
    display_text TEXT NOT NULL DEFAULT '',
    locale TEXT NOT NULL DEFAULT '',
    updated_at INTEGER NOT NULL
);

-- Change history per field
CREATE TABLE IF NOT EXISTS field_events (
    id TEXT PRIMARY KEY,
    field_name TEXT NOT NULL,
    kind TEXT NOT NULL,
    raw_text TEXT NOT NULL DEFAULT '',
    value TEXT,
    valid INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (field_name) REFERENCES fields(name) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_field_events_field ON field_events(field_name, created_at);
`

// foreign_keys is required for the field_events cascade
const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// Database wraps a SQL database connection
type Database struct {
	db *sql.DB
}

// NewDatabase creates a new database connection and initializes the schema
func NewDatabase(path string) (*Database, error) {
	// pragmas in the DSN apply to every pooled connection
	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to :memory: is a separate database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// DB returns the underlying database connection
func (d *Database) DB() *sql.DB {
	return d.db
}

// BeginTx starts a new transaction
func (d *Database) BeginTx() (*sql.Tx, error) {
	return d.db.Begin()
}
