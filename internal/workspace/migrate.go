package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// LegacyDocumentExtension is the extension of standalone document files.
const LegacyDocumentExtension = ".docjson"

// MigrationResult reports the outcome of a workspace migration.
type MigrationResult struct {
	DocumentsImported int      `json:"documentsImported"`
	Warnings          []string `json:"warnings"`
	Errors            []string `json:"errors"`
}

// --- Legacy JSON structures (matching the old file-based format) ---

type legacyWorkspaceConfig struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DefaultPageSize string `json:"defaultPageSize,omitempty"`
	Autosave        bool   `json:"autosave,omitempty"`
}

// MigrateFolder reads a folder of standalone document files at oldRootPath (and its
// documents/ subfolder), validates each one and writes them into a new workspace file
// at newFilePath. Invalid files are reported and skipped.
func MigrateFolder(oldRootPath, newFilePath string) (MigrationResult, error) {
	result := MigrationResult{Warnings: []string{}, Errors: []string{}}
	if info, err := os.Stat(oldRootPath); err != nil || !info.IsDir() {
		return result, fmt.Errorf("legacy folder %q not readable", oldRootPath)
	}

	db, err := OpenDB(newFilePath)
	if err != nil {
		return result, fmt.Errorf("create workspace db: %w", err)
	}
	if err := InitSchema(db); err != nil {
		db.Close()
		return result, err
	}
	repo := NewRepo(db, newFilePath)
	defer repo.Close()

	// --- 1. Workspace config ---
	configData, err := os.ReadFile(filepath.Join(oldRootPath, "workspace.config.json"))
	if err != nil {
		result.Warnings = append(result.Warnings, "workspace.config.json not found; using defaults")
	} else {
		var config legacyWorkspaceConfig
		if err := json.Unmarshal(configData, &config); err != nil {
			result.Warnings = append(result.Warnings, "workspace.config.json parse error: "+err.Error())
		} else if err := repo.SaveAllSettings(WorkspaceSettings{
			Name:            config.Name,
			Description:     config.Description,
			DefaultPageSize: config.DefaultPageSize,
			AutosaveEnabled: config.Autosave,
		}); err != nil {
			result.Errors = append(result.Errors, "save settings: "+err.Error())
		}
	}

	// --- 2. Documents ---
	files := legacyDocuments(oldRootPath)
	if len(files) == 0 {
		result.Warnings = append(result.Warnings, "no "+LegacyDocumentExtension+" files found")
	}
	for _, path := range files {
		name := filepath.Base(path)
		data, err := os.ReadFile(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("read %s: %s", name, err))
			continue
		}
		title := strings.TrimSuffix(name, filepath.Ext(name))
		if _, _, err := repo.SaveDocument(DocumentRecord{Title: title, Snapshot: string(data)}); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", name, err))
			continue
		}
		result.DocumentsImported++
	}

	// --- 3. UI state ---
	stateData, err := os.ReadFile(filepath.Join(oldRootPath, "workspace.state"))
	if err == nil {
		var raw map[string]any
		if err := json.Unmarshal(stateData, &raw); err != nil {
			result.Warnings = append(result.Warnings, "workspace.state parse error: "+err.Error())
		} else if err := repo.SaveUIState(flattenState(raw)); err != nil {
			result.Errors = append(result.Errors, "save ui state: "+err.Error())
		}
	}

	return result, nil
}

// legacyDocuments returns the document files in root and root/documents, sorted.
func legacyDocuments(root string) []string {
	var files []string
	for _, dir := range []string{root, filepath.Join(root, "documents")} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), LegacyDocumentExtension) {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
	}
	sort.Strings(files)
	return files
}

// flattenState keeps the scalar entries of a legacy UI state object as strings.
func flattenState(raw map[string]any) UIState {
	state := make(UIState, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			state[k] = v
		case bool:
			state[k] = strconv.FormatBool(v)
		case float64:
			state[k] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return state
}
