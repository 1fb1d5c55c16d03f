package dbconn

import (
	"fmt"

	_ "modernc.org/sqlite"
)

// sqliteDialect publishes into a SQLite file, typically on a shared drive.
var sqliteDialect = dialect{
	name:        "sqlite",
	driverName:  "sqlite",
	dsn:         func(cfg ConnectionConfig) string { return cfg.Database },
	placeholder: func(int) string { return "?" },
	quote:       func(ident string) string { return `"` + ident + `"` },
	createTable: func(table string) string {
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	version      INTEGER NOT NULL DEFAULT 1,
	page_count   INTEGER NOT NULL DEFAULT 1,
	snapshot     TEXT NOT NULL,
	published_at DATETIME NOT NULL
)`, table)
	},
	upsert: func(table string) string {
		return fmt.Sprintf(`INSERT INTO "%[1]s" (%[2]s) VALUES (?, ?, 1, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	title = excluded.title, version = "%[1]s".version + 1, page_count = excluded.page_count,
	snapshot = excluded.snapshot, published_at = excluded.published_at`, table, columns)
	},
}
