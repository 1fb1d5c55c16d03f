package workspace

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// FileExtension is the extension of workspace files.
const FileExtension = ".docstudio"

// schemaSQL is the DDL executed when creating a new workspace database.
const schemaSQL = `
-- Workspace metadata (key-value for flexibility)
CREATE TABLE IF NOT EXISTS workspace_settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- === DOCUMENTS ===

CREATE TABLE IF NOT EXISTS documents (
    id            TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    version       INTEGER NOT NULL DEFAULT 1,
    page_count    INTEGER NOT NULL DEFAULT 1,
    snapshot      TEXT NOT NULL,
    viewport_zoom REAL DEFAULT 1.0,
    created_at    TEXT DEFAULT (datetime('now')),
    updated_at    TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS document_thumbnails (
    document_id TEXT PRIMARY KEY REFERENCES documents(id) ON DELETE CASCADE,
    png         BLOB NOT NULL,
    updated_at  TEXT DEFAULT (datetime('now'))
);

-- === CONNECTION PROFILES (workspace-scoped) ===

CREATE TABLE IF NOT EXISTS connection_profiles (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL UNIQUE,
    driver        TEXT NOT NULL,
    host          TEXT,
    port          INTEGER,
    database_name TEXT,
    username      TEXT,
    ssl_mode      TEXT,
    table_name    TEXT,
    created_at    TEXT DEFAULT (datetime('now')),
    updated_at    TEXT DEFAULT (datetime('now'))
);

-- === UI STATE ===

CREATE TABLE IF NOT EXISTS ui_state (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Schema versioning for future migrations
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
INSERT OR IGNORE INTO schema_version (version) VALUES (1);
`

// currentSchemaVersion is the latest schema version this code supports.
const currentSchemaVersion = 1

// OpenDB opens (or creates) a SQLite database at filePath and returns the
// connection. It enables foreign keys and WAL journal mode.
func OpenDB(filePath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// PRAGMAs are per connection; a single connection keeps foreign keys on for every query.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return db, nil
}

// InitSchema creates all tables if they do not already exist.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// MigrateSchema checks the current schema version and applies incremental
// migrations. Returns an error if the file version is newer than supported.
func MigrateSchema(db *sql.DB) error {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("%w: file version %d, supported %d", ErrNewerVersion, version, currentSchemaVersion)
	}
	return nil
}
