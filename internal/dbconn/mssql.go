package dbconn

import (
	"fmt"
	"net/url"

	_ "github.com/microsoft/go-mssqldb"
)

var mssqlDialect = dialect{
	name:        "mssql",
	driverName:  "sqlserver",
	defaultPort: 1433,
	dsn:         mssqlDSN,
	placeholder: func(n int) string { return fmt.Sprintf("@p%d", n) },
	quote:       func(ident string) string { return "[" + ident + "]" },
	createTable: func(table string) string {
		return fmt.Sprintf(`IF OBJECT_ID(N'%[1]s', N'U') IS NULL
CREATE TABLE [%[1]s] (
	id           NVARCHAR(64) NOT NULL PRIMARY KEY,
	title        NVARCHAR(255) NOT NULL,
	version      INT NOT NULL DEFAULT 1,
	page_count   INT NOT NULL DEFAULT 1,
	snapshot     NVARCHAR(MAX) NOT NULL,
	published_at DATETIME2 NOT NULL
)`, table)
	},
	upsert: func(table string) string {
		return fmt.Sprintf(`MERGE INTO [%s] WITH (HOLDLOCK) AS target
USING (SELECT @p1 AS id, @p2 AS title, @p3 AS page_count, @p4 AS snapshot, @p5 AS published_at) AS src
ON target.id = src.id
WHEN MATCHED THEN UPDATE SET
	title = src.title, version = target.version + 1, page_count = src.page_count,
	snapshot = src.snapshot, published_at = src.published_at
WHEN NOT MATCHED THEN INSERT (%s)
	VALUES (src.id, src.title, 1, src.page_count, src.snapshot, src.published_at);`, table, columns)
	},
}

// mssqlDSN builds a sqlserver:// URL.
func mssqlDSN(cfg ConnectionConfig) string {
	encrypt := "true"
	if cfg.SSLMode == "disable" || cfg.SSLMode == "none" {
		encrypt = "disable"
	}
	q := url.Values{}
	q.Set("database", cfg.Database)
	q.Set("encrypt", encrypt)
	q.Set("TrustServerCertificate", "true")
	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		RawQuery: q.Encode(),
	}
	return u.String()
}
