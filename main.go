package main

import (
	"context"
	"embed"
	"log"
	"log/slog"
	"time"

	"colorcapture/internal/clipboardx"
	"colorcapture/internal/config"
	"colorcapture/internal/db"
	"colorcapture/internal/extract"
	"colorcapture/internal/logging"
	"colorcapture/internal/palette"
	"colorcapture/internal/session"
	"colorcapture/internal/store"

	"github.com/wailsapp/wails/v3/pkg/application"
)

// Wails uses Go's `embed` package to embed the frontend files into the binary.
// Any files in the frontend/dist folder will be embedded into the binary and
// made available to the frontend.

//go:embed all:frontend/dist
var assets embed.FS

func init() {
	application.RegisterEvent[session.State](session.EventStateChanged)
	application.RegisterEvent[WatchStatus](EventWatchStatus)
}

// wailsClipboard writes through the desktop runtime's clipboard.
type wailsClipboard struct {
	app *application.App
}

func (c wailsClipboard) WriteText(text string) error {
	if !c.app.Clipboard.SetText(text) {
		return clipboardx.ErrUnavailable
	}
	return nil
}

func main() {
	paths, err := config.ResolvePaths(config.AppSlug)
	if err != nil {
		log.Fatal(err)
	}

	settings, err := config.LoadSettings(paths.SettingsPath, "")
	if err != nil {
		log.Fatal(err)
	}

	level, err := logging.ParseLevel(settings.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	logger, closeLog, err := logging.OpenFile(paths.LogPath, level)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	sqliteDB, err := db.Bootstrap(context.Background(), paths.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqliteDB.Close()

	repo := store.NewPaletteRepository(sqliteDB)
	extractConfig := extract.Config{Logger: logger, MemoryEntries: settings.Cache.MemoryEntries}
	if settings.Cache.Enabled {
		extractConfig.Store = repo
	}
	extractor := extract.NewService(extractConfig)

	settingsService := NewSettingsService(paths.SettingsPath, settings)
	sessionDomain := session.NewService(session.Config{
		GradientSteps: settings.Gradient.Steps,
		GradientSpace: palette.Space(settings.Gradient.Space),
		GradientAngle: settings.Gradient.Angle,
		AckDuration: func(kind palette.CopyKind) time.Duration {
			return settingsService.GetSettings().AckDuration(kind)
		},
	})
	settingsService.SetOnChange(func(updated config.Settings) {
		sessionDomain.SetSpace(palette.Space(updated.Gradient.Space))
	})

	paletteService := NewPaletteService(extractor, sessionDomain, settingsService)
	defer paletteService.Close()
	watchService := NewWatchService(paletteService, logger)
	defer watchService.StopWatching()
	historyService := NewHistoryService(repo, paletteService)
	previewService := NewPreviewService(sessionDomain, paths.ThumbnailDir, logger)
	bootstrapService := NewBootstrapService(repo, paletteService, settingsService, watchService)

	app := application.New(application.Options{
		Name:        "Color Capture",
		Description: "Image palettes and gradients",
		Logger:      logger,
		Services: []application.Service{
			application.NewService(bootstrapService),
			application.NewService(paletteService),
			application.NewService(settingsService),
			application.NewService(historyService),
			application.NewService(watchService),
			application.NewServiceWithOptions(previewService, application.ServiceOptions{Route: "/preview"}),
		},
		Assets: application.AssetOptions{
			Handler: application.AssetFileServerFS(assets),
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: true,
		},
	})

	sessionDomain.SetClipboard(wailsClipboard{app: app})
	sessionDomain.SetEmitter(func(eventName string, payload any) {
		app.Event.Emit(eventName, payload)
	})
	watchService.SetEmitter(func(eventName string, payload any) {
		app.Event.Emit(eventName, payload)
	})

	app.Window.NewWithOptions(application.WebviewWindowOptions{
		Title: "Color Capture",
		Mac: application.MacWindow{
			InvisibleTitleBarHeight: 50,
			Backdrop:                application.MacBackdropTranslucent,
			TitleBar:                application.MacTitleBarHiddenInset,
		},
		BackgroundColour: application.NewRGB(18, 18, 22),
		URL:              "/",
	})

	err = app.Run()
	if err != nil {
		log.Fatal(err)
	}
}
