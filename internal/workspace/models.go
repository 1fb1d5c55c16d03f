package workspace

import "errors"

var (
	// ErrNewerVersion is returned when a workspace file was written by a newer release.
	ErrNewerVersion = errors.New("workspace file is newer than this version of Doc Studio")
	// ErrNotFound is returned for unknown workspace ids.
	ErrNotFound = errors.New("workspace not found")
)

// WorkspaceSettings holds workspace-level configuration as key-value pairs.
type WorkspaceSettings struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DefaultPageSize string `json:"defaultPageSize,omitempty"`
	AutosaveEnabled bool   `json:"autosaveEnabled"`
}

// DocumentRecord is one stored document. Snapshot is the serialized document.
type DocumentRecord struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Version      int     `json:"version"`
	PageCount    int     `json:"pageCount"`
	Snapshot     string  `json:"snapshot"`
	ViewportZoom float64 `json:"viewportZoom"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

// DocumentSummary is a lightweight listing of documents (no snapshot).
type DocumentSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	PageCount int    `json:"pageCount"`
	Version   int    `json:"version"`
	UpdatedAt string `json:"updatedAt"`
}

// ConnectionProfile stores publishing connection details within a workspace. Passwords
// live in the OS keyring, never in the workspace file.
type ConnectionProfile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Driver       string `json:"driver"`
	Host         string `json:"host,omitempty"`
	Port         *int   `json:"port,omitempty"`
	DatabaseName string `json:"databaseName,omitempty"`
	Username     string `json:"username,omitempty"`
	SSLMode      string `json:"sslMode,omitempty"`
	TableName    string `json:"tableName,omitempty"`
}

// UIState holds persisted UI state as key-value pairs.
type UIState map[string]string
