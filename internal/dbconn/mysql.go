package dbconn

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
)

var mysqlDialect = dialect{
	name:        "mysql",
	driverName:  "mysql",
	defaultPort: 3306,
	dsn:         mysqlDSN,
	placeholder: func(int) string { return "?" },
	quote:       func(ident string) string { return "`" + ident + "`" },
	createTable: func(table string) string {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+`
	id           VARCHAR(64) NOT NULL PRIMARY KEY,
	title        VARCHAR(255) NOT NULL,
	version      INT NOT NULL DEFAULT 1,
	page_count   INT NOT NULL DEFAULT 1,
	snapshot     LONGTEXT NOT NULL,
	published_at DATETIME(6) NOT NULL
) DEFAULT CHARSET = utf8mb4`, table)
	},
	upsert: func(table string) string {
		return fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (?, ?, 1, ?, ?, ?)"+`
ON DUPLICATE KEY UPDATE
	title = VALUES(title), version = version + 1, page_count = VALUES(page_count),
	snapshot = VALUES(snapshot), published_at = VALUES(published_at)`, table, columns)
	},
}

// mysqlDSN builds a go-sql-driver DSN with parseTime so timestamps scan as time.Time.
func mysqlDSN(cfg ConnectionConfig) string {
	c := mysql.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	c.DBName = cfg.Database
	c.ParseTime = true
	switch cfg.SSLMode {
	case "disable", "none":
		c.TLSConfig = "false"
	case "require":
		c.TLSConfig = "true"
	default:
		c.TLSConfig = "preferred"
	}
	return c.FormatDSN()
}
