package workspace

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"docstudio/internal/document"
)

// WorkspaceRepo provides CRUD operations against a workspace SQLite database.
type WorkspaceRepo struct {
	db       *sql.DB
	filePath string
}

// NewRepo wraps an open database connection.
func NewRepo(db *sql.DB, filePath string) *WorkspaceRepo {
	return &WorkspaceRepo{db: db, filePath: filePath}
}

// FilePath returns the path to the .docstudio file.
func (r *WorkspaceRepo) FilePath() string { return r.filePath }

// Close closes the underlying database connection.
func (r *WorkspaceRepo) Close() error { return r.db.Close() }

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

const upsertSetting = "INSERT INTO workspace_settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"

// GetSetting returns a single setting value. Returns "" if not found.
func (r *WorkspaceRepo) GetSetting(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM workspace_settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSetting upserts a setting key-value pair.
func (r *WorkspaceRepo) SetSetting(key, value string) error {
	_, err := r.db.Exec(upsertSetting, key, value)
	return err
}

// GetAllSettings returns all workspace settings.
func (r *WorkspaceRepo) GetAllSettings() (WorkspaceSettings, error) {
	rows, err := r.db.Query("SELECT key, value FROM workspace_settings")
	if err != nil {
		return WorkspaceSettings{}, err
	}
	defer rows.Close()

	var s WorkspaceSettings
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return s, err
		}
		switch k {
		case "name":
			s.Name = v
		case "description":
			s.Description = v
		case "default_page_size":
			s.DefaultPageSize = v
		case "autosave_enabled":
			s.AutosaveEnabled, _ = strconv.ParseBool(v)
		}
	}
	return s, rows.Err()
}

// SaveAllSettings writes all workspace settings.
func (r *WorkspaceRepo) SaveAllSettings(s WorkspaceSettings) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, kv := range [][2]string{
		{"name", s.Name},
		{"description", s.Description},
		{"default_page_size", s.DefaultPageSize},
		{"autosave_enabled", strconv.FormatBool(s.AutosaveEnabled)},
	} {
		if _, err := tx.Exec(upsertSetting, kv[0], kv[1]); err != nil {
			return fmt.Errorf("save setting %s: %w", kv[0], err)
		}
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

// ListDocuments returns lightweight summaries of all documents, most recently updated first.
func (r *WorkspaceRepo) ListDocuments() ([]DocumentSummary, error) {
	rows, err := r.db.Query("SELECT id, title, page_count, version, updated_at FROM documents ORDER BY updated_at DESC, title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []DocumentSummary
	for rows.Next() {
		var d DocumentSummary
		var updated sql.NullString
		if err := rows.Scan(&d.ID, &d.Title, &d.PageCount, &d.Version, &updated); err != nil {
			return nil, err
		}
		d.UpdatedAt = updated.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// GetDocument loads a document record. Returns nil if not found.
func (r *WorkspaceRepo) GetDocument(id string) (*DocumentRecord, error) {
	var d DocumentRecord
	var zoom sql.NullFloat64
	var created, updated sql.NullString
	err := r.db.QueryRow(
		`SELECT id, title, version, page_count, snapshot, viewport_zoom, created_at, updated_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&d.ID, &d.Title, &d.Version, &d.PageCount, &d.Snapshot, &zoom, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.ViewportZoom = 1
	if zoom.Valid {
		d.ViewportZoom = zoom.Float64
	}
	d.CreatedAt = created.String
	d.UpdatedAt = updated.String
	return &d, nil
}

// SaveDocument validates the snapshot and upserts the record. A new record gets a fresh
// id; an existing one has its version bumped. The stored page count is taken from the
// snapshot. Returns the saved id and version.
func (r *WorkspaceRepo) SaveDocument(d DocumentRecord) (string, int, error) {
	probe := document.New(document.Options{HistoryLimit: 1})
	if err := probe.Deserialize(d.Snapshot); err != nil {
		return "", 0, fmt.Errorf("invalid snapshot for %q: %w", d.Title, err)
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Title == "" {
		d.Title = "Untitled document"
	}
	if d.ViewportZoom <= 0 {
		d.ViewportZoom = 1
	}

	tx, err := r.db.Begin()
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO documents (id, title, version, page_count, snapshot, viewport_zoom, updated_at)
		 VALUES (?, ?, 1, ?, ?, ?, datetime('now'))
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, version=documents.version + 1, page_count=excluded.page_count,
		   snapshot=excluded.snapshot, viewport_zoom=excluded.viewport_zoom, updated_at=datetime('now')`,
		d.ID, d.Title, probe.PageCount(), d.Snapshot, d.ViewportZoom,
	)
	if err != nil {
		return "", 0, fmt.Errorf("upsert document: %w", err)
	}
	var version int
	if err := tx.QueryRow("SELECT version FROM documents WHERE id = ?", d.ID).Scan(&version); err != nil {
		return "", 0, fmt.Errorf("read document version: %w", err)
	}
	return d.ID, version, tx.Commit()
}

// RenameDocument changes the title of a document.
func (r *WorkspaceRepo) RenameDocument(id, title string) error {
	res, err := r.db.Exec("UPDATE documents SET title = ?, updated_at = datetime('now') WHERE id = ?", title, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document %s not found", id)
	}
	return nil
}

// DeleteDocument removes a document and its thumbnail (via CASCADE).
func (r *WorkspaceRepo) DeleteDocument(id string) error {
	_, err := r.db.Exec("DELETE FROM documents WHERE id = ?", id)
	return err
}

// SaveThumbnail stores the PNG preview of a document.
func (r *WorkspaceRepo) SaveThumbnail(documentID string, png []byte) error {
	_, err := r.db.Exec(
		`INSERT INTO document_thumbnails (document_id, png, updated_at) VALUES (?, ?, datetime('now'))
		 ON CONFLICT(document_id) DO UPDATE SET png = excluded.png, updated_at = datetime('now')`,
		documentID, png,
	)
	return err
}

// GetThumbnail returns the PNG preview of a document, or nil when none is stored.
func (r *WorkspaceRepo) GetThumbnail(documentID string) ([]byte, error) {
	var png []byte
	err := r.db.QueryRow("SELECT png FROM document_thumbnails WHERE document_id = ?", documentID).Scan(&png)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return png, err
}

// ---------------------------------------------------------------------------
// Connection Profiles (workspace-scoped)
// ---------------------------------------------------------------------------

// ListConnectionProfiles returns all connection profiles in the workspace.
func (r *WorkspaceRepo) ListConnectionProfiles() ([]ConnectionProfile, error) {
	rows, err := r.db.Query(
		`SELECT id, name, driver, host, port, database_name, username, ssl_mode, table_name
		 FROM connection_profiles ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []ConnectionProfile
	for rows.Next() {
		var p ConnectionProfile
		var host, dbName, username, sslMode, table sql.NullString
		var port sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &p.Driver, &host, &port, &dbName, &username, &sslMode, &table); err != nil {
			return nil, err
		}
		p.Host = host.String
		if port.Valid {
			portInt := int(port.Int64)
			p.Port = &portInt
		}
		p.DatabaseName = dbName.String
		p.Username = username.String
		p.SSLMode = sslMode.String
		p.TableName = table.String
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// SaveConnectionProfile upserts a connection profile. A missing id is generated.
func (r *WorkspaceRepo) SaveConnectionProfile(p ConnectionProfile) (string, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := r.db.Exec(
		`INSERT INTO connection_profiles (id, name, driver, host, port, database_name, username, ssl_mode, table_name, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, driver=excluded.driver, host=excluded.host, port=excluded.port,
		   database_name=excluded.database_name, username=excluded.username, ssl_mode=excluded.ssl_mode,
		   table_name=excluded.table_name, updated_at=datetime('now')`,
		p.ID, p.Name, p.Driver,
		nullIfEmpty(p.Host), p.Port, nullIfEmpty(p.DatabaseName),
		nullIfEmpty(p.Username), nullIfEmpty(p.SSLMode), nullIfEmpty(p.TableName),
	)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// DeleteConnectionProfile removes a connection profile by ID.
func (r *WorkspaceRepo) DeleteConnectionProfile(id string) error {
	_, err := r.db.Exec("DELETE FROM connection_profiles WHERE id = ?", id)
	return err
}

// ---------------------------------------------------------------------------
// UI State
// ---------------------------------------------------------------------------

// GetUIState returns all UI state key-value pairs.
func (r *WorkspaceRepo) GetUIState() (UIState, error) {
	rows, err := r.db.Query("SELECT key, value FROM ui_state")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	state := make(UIState)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		state[k] = v
	}
	return state, rows.Err()
}

// SaveUIState replaces all UI state key-value pairs.
func (r *WorkspaceRepo) SaveUIState(state UIState) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM ui_state"); err != nil {
		return err
	}
	for k, v := range state {
		if _, err := tx.Exec("INSERT INTO ui_state (key, value) VALUES (?, ?)", k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
