package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"docstudio/internal/canvas"
	"docstudio/internal/document"
)

// Config aggregates the runtime settings of the editor.
type Config struct {
	Editor    EditorConfig
	Canvas    CanvasConfig
	Workspace WorkspaceConfig
	Autosave  AutosaveConfig
	Publish   PublishConfig
	Logger    LoggerConfig
}

type EditorConfig struct {
	HistoryLimit    int
	DuplicateOffset float64
}

type CanvasConfig struct {
	ZoomMin        float64
	ZoomMax        float64
	ZoomStep       float64
	GridSize       float64
	SnapToGrid     bool
	MinElementSize float64
	HandleSize     float64
	NudgeStep      float64
	NudgeStepLarge float64
	ShowGuides     bool
}

type WorkspaceConfig struct {
	Path string
}

type AutosaveConfig struct {
	Path     string
	Interval time.Duration
}

type PublishConfig struct {
	Table   string
	Timeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the editor starts without any configuration.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	dataDir := defaultDataDir()
	cfg := &Config{
		Editor: EditorConfig{
			HistoryLimit:    getInt("DOCSTUDIO_HISTORY_LIMIT", 50),
			DuplicateOffset: getFloat("DOCSTUDIO_DUPLICATE_OFFSET", document.DefaultDuplicateOffset),
		},
		Canvas: CanvasConfig{
			ZoomMin:        getFloat("DOCSTUDIO_ZOOM_MIN", 0.25),
			ZoomMax:        getFloat("DOCSTUDIO_ZOOM_MAX", 3),
			ZoomStep:       getFloat("DOCSTUDIO_ZOOM_STEP", 0.1),
			GridSize:       getFloat("DOCSTUDIO_GRID_SIZE", 10),
			SnapToGrid:     getBool("DOCSTUDIO_SNAP_TO_GRID", true),
			MinElementSize: getFloat("DOCSTUDIO_MIN_ELEMENT_SIZE", 20),
			HandleSize:     getFloat("DOCSTUDIO_HANDLE_SIZE", 8),
			NudgeStep:      getFloat("DOCSTUDIO_NUDGE_STEP", 1),
			NudgeStepLarge: getFloat("DOCSTUDIO_NUDGE_STEP_LARGE", 10),
			ShowGuides:     getBool("DOCSTUDIO_SHOW_GUIDES", false),
		},
		Workspace: WorkspaceConfig{
			Path: getString("DOCSTUDIO_WORKSPACE_PATH", filepath.Join(dataDir, "workspace.docstudio")),
		},
		Autosave: AutosaveConfig{
			Path:     getString("DOCSTUDIO_AUTOSAVE_PATH", filepath.Join(dataDir, "autosave.db")),
			Interval: getDuration("DOCSTUDIO_AUTOSAVE_INTERVAL", 30*time.Second),
		},
		Publish: PublishConfig{
			Table:   getString("DOCSTUDIO_PUBLISH_TABLE", "docstudio_documents"),
			Timeout: getDuration("DOCSTUDIO_PUBLISH_TIMEOUT", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// DocumentOptions returns the options for a new document.
func (c *Config) DocumentOptions(log *zap.Logger) document.Options {
	return document.Options{
		HistoryLimit:    c.Editor.HistoryLimit,
		DuplicateOffset: c.Editor.DuplicateOffset,
		Logger:          log,
	}
}

// CanvasOptions returns the controller options. Paste cascades by the duplicate offset.
func (c *Config) CanvasOptions(log *zap.Logger, onStatus func(string)) canvas.Options {
	return canvas.Options{
		ZoomMin:        c.Canvas.ZoomMin,
		ZoomMax:        c.Canvas.ZoomMax,
		ZoomStep:       c.Canvas.ZoomStep,
		SnapToGrid:     c.Canvas.SnapToGrid,
		GridSize:       c.Canvas.GridSize,
		MinSize:        c.Canvas.MinElementSize,
		HandleSize:     c.Canvas.HandleSize,
		NudgeStep:      c.Canvas.NudgeStep,
		NudgeStepLarge: c.Canvas.NudgeStepLarge,
		PasteOffset:    c.Editor.DuplicateOffset,
		ShowGuides:     c.Canvas.ShowGuides,
		Logger:         log,
		OnStatus:       onStatus,
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "docstudio")
	}
	return "."
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
