package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS patients (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT NOT NULL DEFAULT '',
	age       INTEGER NOT NULL DEFAULT 0,
	gender    TEXT NOT NULL DEFAULT '',
	phone     TEXT NOT NULL DEFAULT '',
	address   TEXT NOT NULL DEFAULT '',
	charge    REAL NOT NULL DEFAULT 0,
	details   TEXT NOT NULL DEFAULT '',
	notes     TEXT NOT NULL DEFAULT '',
	photo     TEXT NOT NULL DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 0,
	visits    TEXT NOT NULL DEFAULT '[]',
	payments  TEXT NOT NULL DEFAULT '[]'
);
`

// NewDB opens (creating if needed) the ledger database at path and
// ensures the schema exists. The database is a single local file; there
// is no migration story, the schema has a single version.
func NewDB(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; the ledger serialises mutations anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}
