package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestMigrateFolder(t *testing.T) {
	old := t.TempDir()
	writeFile(t, filepath.Join(old, "workspace.config.json"), `{"name":"Legacy","autosave":true}`)
	writeFile(t, filepath.Join(old, "Cover letter.docjson"), snapshot(t, 1))
	writeFile(t, filepath.Join(old, "documents", "Report.docjson"), snapshot(t, 2))
	writeFile(t, filepath.Join(old, "documents", "broken.docjson"), `{"pages": 3}`)
	writeFile(t, filepath.Join(old, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(old, "workspace.state"), `{"zoom":1.25,"sidebar":true,"tab":"pages","nested":{"x":1}}`)

	target := filepath.Join(t.TempDir(), "migrated"+FileExtension)
	result, err := MigrateFolder(old, target)
	require.NoError(t, err)
	assert.Equal(t, 2, result.DocumentsImported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "broken.docjson")

	m := NewManager(nil)
	t.Cleanup(m.CloseAll)
	_, repo, err := m.OpenWorkspace(target)
	require.NoError(t, err)

	settings, err := repo.GetAllSettings()
	require.NoError(t, err)
	assert.Equal(t, "Legacy", settings.Name)
	assert.True(t, settings.AutosaveEnabled)

	docs, err := repo.ListDocuments()
	require.NoError(t, err)
	titles := map[string]int{}
	for _, d := range docs {
		titles[d.Title] = d.PageCount
	}
	assert.Equal(t, map[string]int{"Cover letter": 1, "Report": 2}, titles)

	state, err := repo.GetUIState()
	require.NoError(t, err)
	assert.Equal(t, UIState{"zoom": "1.25", "sidebar": "true", "tab": "pages"}, state)
}

func TestMigrateFolder_EmptyFolderWarns(t *testing.T) {
	result, err := MigrateFolder(t.TempDir(), filepath.Join(t.TempDir(), "empty"+FileExtension))
	require.NoError(t, err)
	assert.Zero(t, result.DocumentsImported)
	assert.Len(t, result.Warnings, 2)
	assert.Empty(t, result.Errors)
}

func TestMigrateFolder_MissingFolder(t *testing.T) {
	_, err := MigrateFolder(filepath.Join(t.TempDir(), "gone"), filepath.Join(t.TempDir(), "x"+FileExtension))
	assert.Error(t, err)
}
