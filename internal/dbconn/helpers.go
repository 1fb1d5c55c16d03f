package dbconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const queryTimeout = 30 * time.Second

// dialect holds everything that differs between backends.
type dialect struct {
	name        string
	driverName  string // database/sql driver
	defaultPort int
	dsn         func(cfg ConnectionConfig) string
	placeholder func(n int) string
	quote       func(ident string) string
	createTable func(table string) string
	// upsert takes id, title, page_count, snapshot, published_at in that order.
	upsert func(table string) string
}

// column list shared by every dialect.
const columns = "id, title, version, page_count, snapshot, published_at"

// selectOne builds the Fetch query.
func (d dialect) selectOne(table string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = %s", columns, d.quote(table), d.placeholder(1))
}

// selectVersion builds the query that reads back a version after an upsert.
func (d dialect) selectVersion(table string) string {
	return fmt.Sprintf("SELECT version FROM %s WHERE id = %s", d.quote(table), d.placeholder(1))
}

// selectAll builds the List query.
func (d dialect) selectAll(table string) string {
	return fmt.Sprintf("SELECT id, title, version, page_count, published_at FROM %s ORDER BY published_at DESC, title",
		d.quote(table))
}

// sqlPublisher implements Publisher for any dialect.
type sqlPublisher struct {
	dialect dialect
	db      *sql.DB
	table   string
	now     func() time.Time
}

func (p *sqlPublisher) Connect(ctx context.Context, cfg ConnectionConfig) error {
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	if err := ValidateTable(table); err != nil {
		return err
	}
	if cfg.Port == 0 {
		cfg.Port = p.dialect.defaultPort
	}

	db, err := sql.Open(p.dialect.driverName, p.dialect.dsn(cfg))
	if err != nil {
		return fmt.Errorf("%s connect: %w", p.dialect.name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("%s ping: %w", p.dialect.name, err)
	}
	p.db = db
	p.table = table
	return nil
}

func (p *sqlPublisher) Close() error {
	if p.db != nil {
		err := p.db.Close()
		p.db = nil
		return err
	}
	return nil
}

func (p *sqlPublisher) EnsureTable(ctx context.Context) error {
	if p.db == nil {
		return ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	if _, err := p.db.ExecContext(ctx, p.dialect.createTable(p.table)); err != nil {
		return fmt.Errorf("creating table %s: %w", p.table, err)
	}
	return nil
}

func (p *sqlPublisher) Publish(ctx context.Context, doc PublishedDocument) (int, error) {
	if p.db == nil {
		return 0, ErrNotConnected
	}
	if doc.ID == "" {
		return 0, errors.New("publish: document id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("publish: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, p.dialect.upsert(p.table),
		doc.ID, doc.Title, doc.PageCount, doc.Snapshot, p.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("publish %s: %w", doc.ID, err)
	}
	var version int
	if err := tx.QueryRowContext(ctx, p.dialect.selectVersion(p.table), doc.ID).Scan(&version); err != nil {
		return 0, fmt.Errorf("read published version: %w", err)
	}
	return version, tx.Commit()
}

func (p *sqlPublisher) Fetch(ctx context.Context, id string) (PublishedDocument, error) {
	if p.db == nil {
		return PublishedDocument{}, ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc PublishedDocument
	var published any
	err := p.db.QueryRowContext(ctx, p.dialect.selectOne(p.table), id).
		Scan(&doc.ID, &doc.Title, &doc.Version, &doc.PageCount, &doc.Snapshot, &published)
	if errors.Is(err, sql.ErrNoRows) {
		return PublishedDocument{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return PublishedDocument{}, fmt.Errorf("fetch %s: %w", id, err)
	}
	if doc.PublishedAt, err = scanTime(published); err != nil {
		return PublishedDocument{}, err
	}
	return doc, nil
}

func (p *sqlPublisher) List(ctx context.Context) ([]PublishedDocument, error) {
	if p.db == nil {
		return nil, ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, p.dialect.selectAll(p.table))
	if err != nil {
		return nil, fmt.Errorf("listing published documents: %w", err)
	}
	defer rows.Close()

	var docs []PublishedDocument
	for rows.Next() {
		var doc PublishedDocument
		var published any
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Version, &doc.PageCount, &published); err != nil {
			return nil, err
		}
		if doc.PublishedAt, err = scanTime(published); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// timeLayouts are the textual timestamp forms drivers hand back.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// scanTime converts a scanned timestamp column into a UTC time.
func scanTime(v any) (time.Time, error) {
	var s string
	switch v := v.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unexpected timestamp type %T", v)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
