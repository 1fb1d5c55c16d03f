package main

import (
	"embed"
	"log"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"

	"docstudio/internal/app"
	"docstudio/internal/config"
	"docstudio/internal/logger"
)

var Version string = "0.1.0"

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg := config.MustLoad()
	zl, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()
	zl.Info("starting Doc Studio", zap.String("version", Version))

	a := app.NewApp(Version, cfg, zl)
	err = wails.Run(&options.App{
		Title:  "Doc Studio",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff},
		OnStartup:        a.Startup,
		OnShutdown:       a.Shutdown,
		Bind: []interface{}{
			a,
		},
	})
	if err != nil {
		zl.Fatal("wails run", zap.Error(err))
	}
}
