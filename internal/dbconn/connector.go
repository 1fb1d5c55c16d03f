// Package dbconn publishes document snapshots to shared SQL databases so that other
// machines can list and fetch them. Each backend is a dialect over database/sql.
package dbconn

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrUnsupportedDriver is returned by NewPublisher for unknown driver names.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	// ErrNotConnected is returned when a publisher is used before Connect.
	ErrNotConnected = errors.New("publisher is not connected")
	// ErrNotFound is returned by Fetch for unknown document ids.
	ErrNotFound = errors.New("published document not found")
	// ErrInvalidTable is returned for table names that are not plain identifiers.
	ErrInvalidTable = errors.New("invalid table name")
)

// DefaultTable is the table used when a connection does not name one.
const DefaultTable = "docstudio_documents"

// ConnectionConfig holds the parameters needed to connect to a database backend.
type ConnectionConfig struct {
	Driver   string `json:"driver"` // postgres, mysql, mssql, sqlite
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"` // file path for sqlite
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode,omitempty"`
	Table    string `json:"table,omitempty"`
}

// PublishedDocument is one document snapshot stored in a shared database.
type PublishedDocument struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Version     int       `json:"version"`
	PageCount   int       `json:"pageCount"`
	Snapshot    string    `json:"snapshot,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Publisher is the common interface for snapshot publishing backends.
type Publisher interface {
	// Connect opens and pings the database.
	Connect(ctx context.Context, cfg ConnectionConfig) error
	// Close closes the connection.
	Close() error
	// EnsureTable creates the documents table when it does not exist.
	EnsureTable(ctx context.Context) error
	// Publish inserts or replaces a snapshot and returns its new version.
	Publish(ctx context.Context, doc PublishedDocument) (int, error)
	// Fetch loads one published document including its snapshot.
	Fetch(ctx context.Context, id string) (PublishedDocument, error)
	// List returns every published document without snapshots, newest first.
	List(ctx context.Context) ([]PublishedDocument, error)
}

// NewPublisher creates a Publisher for the given driver name.
func NewPublisher(driver string) (Publisher, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
	return &sqlPublisher{dialect: d, now: time.Now}, nil
}

// Drivers lists the supported driver names.
func Drivers() []string {
	return []string{"postgres", "mysql", "mssql", "sqlite"}
}

var dialects = map[string]dialect{
	"postgres": postgresDialect,
	"mysql":    mysqlDialect,
	"mssql":    mssqlDialect,
	"sqlite":   sqliteDialect,
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidateTable rejects table names that are not plain identifiers.
func ValidateTable(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, name)
	}
	return nil
}
