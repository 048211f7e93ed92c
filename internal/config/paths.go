package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const AppSlug = "colorcapture"

type Paths struct {
	BaseDir      string
	DBPath       string
	SettingsPath string
	LogPath      string
	ThumbnailDir string
}

// For mocking in tests
var osUserConfigDir = os.UserConfigDir

func ResolvePaths(appSlug string) (Paths, error) {
	configDir, err := osUserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve user config dir: %w", err)
	}

	return ResolvePathsIn(filepath.Join(configDir, appSlug))
}

// ResolvePathsIn lays the app files out under baseDir, creating it.
func ResolvePathsIn(baseDir string) (Paths, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create app config dir: %w", err)
	}

	thumbnailDir := filepath.Join(baseDir, "thumbnails")
	if err := os.MkdirAll(thumbnailDir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create thumbnail dir: %w", err)
	}

	return Paths{
		BaseDir:      baseDir,
		DBPath:       filepath.Join(baseDir, "palettes.db"),
		SettingsPath: filepath.Join(baseDir, "config.yaml"),
		LogPath:      filepath.Join(baseDir, "colorcapture.log"),
		ThumbnailDir: thumbnailDir,
	}, nil
}
