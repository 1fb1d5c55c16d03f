package workspace

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OpenWorkspaceInfo describes one open workspace.
type OpenWorkspaceInfo struct {
	ID       string `json:"id"`
	FilePath string `json:"filePath"`
}

// WorkspaceManager manages multiple open workspaces, each backed by a SQLite database.
type WorkspaceManager struct {
	mu    sync.RWMutex
	repos map[string]*WorkspaceRepo // keyed by workspace ID
	log   *zap.Logger
}

// NewManager creates a new empty WorkspaceManager.
func NewManager(log *zap.Logger) *WorkspaceManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkspaceManager{
		repos: make(map[string]*WorkspaceRepo),
		log:   log,
	}
}

// CreateWorkspace creates a new workspace file at filePath, initializes the schema, and
// returns the workspace ID and repo.
func (m *WorkspaceManager) CreateWorkspace(filePath string) (string, *WorkspaceRepo, error) {
	db, err := OpenDB(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("open db: %w", err)
	}
	if err := InitSchema(db); err != nil {
		db.Close()
		return "", nil, err
	}
	repo := NewRepo(db, filePath)
	return m.register(repo), repo, nil
}

// OpenWorkspace opens an existing workspace file and returns the workspace ID and repo.
// It runs schema migration if needed.
func (m *WorkspaceManager) OpenWorkspace(filePath string) (string, *WorkspaceRepo, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", nil, fmt.Errorf("open workspace: %w", err)
	}
	db, err := OpenDB(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("open db: %w", err)
	}
	if err := MigrateSchema(db); err != nil {
		db.Close()
		return "", nil, fmt.Errorf("migrate schema: %w", err)
	}
	repo := NewRepo(db, filePath)
	return m.register(repo), repo, nil
}

// OpenOrCreate opens filePath, creating the workspace when the file does not exist.
func (m *WorkspaceManager) OpenOrCreate(filePath string) (string, *WorkspaceRepo, error) {
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return m.CreateWorkspace(filePath)
	}
	return m.OpenWorkspace(filePath)
}

func (m *WorkspaceManager) register(repo *WorkspaceRepo) string {
	wsID := uuid.New().String()
	m.mu.Lock()
	m.repos[wsID] = repo
	m.mu.Unlock()
	m.log.Info("workspace opened", zap.String("id", wsID), zap.String("path", repo.FilePath()))
	return wsID
}

// CloseWorkspace closes the SQLite connection for a workspace and removes it
// from the manager.
func (m *WorkspaceManager) CloseWorkspace(wsID string) error {
	m.mu.Lock()
	repo, ok := m.repos[wsID]
	if ok {
		delete(m.repos, wsID)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, wsID)
	}
	m.log.Info("workspace closed", zap.String("id", wsID))
	return repo.Close()
}

// GetRepo returns the WorkspaceRepo for an open workspace, or nil if not found.
func (m *WorkspaceManager) GetRepo(wsID string) *WorkspaceRepo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.repos[wsID]
}

// Workspaces lists the open workspaces ordered by file path.
func (m *WorkspaceManager) Workspaces() []OpenWorkspaceInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]OpenWorkspaceInfo, 0, len(m.repos))
	for id, repo := range m.repos {
		out = append(out, OpenWorkspaceInfo{ID: id, FilePath: repo.FilePath()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FilePath < out[j].FilePath })
	return out
}

// CloseAll closes all open workspaces. Called at application shutdown.
func (m *WorkspaceManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, repo := range m.repos {
		if err := repo.Close(); err != nil {
			m.log.Warn("closing workspace", zap.String("id", id), zap.Error(err))
		}
		delete(m.repos, id)
	}
}
