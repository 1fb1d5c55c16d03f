package dbconn

import (
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var postgresDialect = dialect{
	name:        "postgres",
	driverName:  "pgx",
	defaultPort: 5432,
	dsn:         postgresDSN,
	placeholder: pgPlaceholder,
	quote:       func(ident string) string { return `"` + ident + `"` },
	createTable: func(table string) string {
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	version      INTEGER NOT NULL DEFAULT 1,
	page_count   INTEGER NOT NULL DEFAULT 1,
	snapshot     TEXT NOT NULL,
	published_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, table)
	},
	upsert: func(table string) string {
		return fmt.Sprintf(`INSERT INTO "%[1]s" (%[2]s) VALUES ($1, $2, 1, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
	title = excluded.title, version = "%[1]s".version + 1, page_count = excluded.page_count,
	snapshot = excluded.snapshot, published_at = excluded.published_at`, table, columns)
	},
}

// postgresDSN builds a pgx URL; credentials are escaped.
func postgresDSN(cfg ConnectionConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// pgPlaceholder returns $1, $2, ... style placeholders for PostgreSQL.
func pgPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
