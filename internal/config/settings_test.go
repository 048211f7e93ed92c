package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"colorcapture/internal/palette"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadSettingsDefaultsWhenNoFiles(t *testing.T) {
	dir := t.TempDir()

	settings, err := LoadSettings(filepath.Join(dir, "missing.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings().Normalize(), settings)
	assert.Equal(t, 8, settings.Extraction.PaletteSize)
	assert.Equal(t, time.Second, settings.AckDuration(palette.CopyPaletteHex))
	assert.Equal(t, 2*time.Second, settings.AckDuration(palette.CopyGradientCSS))
}

func TestLoadSettingsLayersFiles(t *testing.T) {
	dir := t.TempDir()
	userPath := filepath.Join(dir, "user.yaml")
	explicitPath := filepath.Join(dir, "explicit.yaml")

	writeFile(t, userPath, `
extraction:
  paletteSize: 12
gradient:
  space: lab
copy:
  cssAck: 3s
`)
	writeFile(t, explicitPath, `
extraction:
  paletteSize: 5
log:
  level: DEBUG
`)

	settings, err := LoadSettings(userPath, explicitPath)
	require.NoError(t, err)

	assert.Equal(t, 5, settings.Extraction.PaletteSize, "explicit file overrides user file")
	assert.Equal(t, palette.DefaultAlphaThreshold, settings.Extraction.AlphaThreshold, "unset fields keep defaults")
	assert.Equal(t, "lab", settings.Gradient.Space)
	assert.Equal(t, 3*time.Second, settings.Copy.CSSAck)
	assert.Equal(t, time.Second, settings.Copy.ColorAck)
	assert.Equal(t, "debug", settings.Log.Level)
	assert.True(t, settings.Cache.Enabled)
}

func TestLoadSettingsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSettings("", filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err, "explicit config must exist")

	broken := filepath.Join(dir, "broken.yaml")
	writeFile(t, broken, "extraction: [not, a, map")
	_, err = LoadSettings(broken, "")
	assert.Error(t, err)
}

func TestNormalizeClampsValues(t *testing.T) {
	settings := Settings{
		Extraction: palette.Options{PaletteSize: 999},
		Gradient:   GradientSettings{Steps: 500, Space: "oklab", Angle: -90},
		Copy:       CopySettings{ColorAck: time.Millisecond, CSSAck: time.Hour},
		Log:        LogSettings{Level: "loud", Format: "JSON"},
	}.Normalize()

	assert.Equal(t, palette.MaxPaletteSize, settings.Extraction.PaletteSize)
	assert.Equal(t, maxGradientSteps, settings.Gradient.Steps)
	assert.Equal(t, "rgb", settings.Gradient.Space)
	assert.Equal(t, 270, settings.Gradient.Angle)
	assert.Equal(t, minAckDuration, settings.Copy.ColorAck)
	assert.Equal(t, maxAckDuration, settings.Copy.CSSAck)
	assert.Equal(t, "info", settings.Log.Level)
	assert.Equal(t, "json", settings.Log.Format)
	assert.Equal(t, 96, settings.Cache.MemoryEntries)
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original := DefaultSettings()
	original.Extraction.PaletteSize = 16
	original.Gradient.Space = "hcl"
	original.Cache.Enabled = false
	require.NoError(t, original.Save(path))

	loaded, err := LoadSettings("", path)
	require.NoError(t, err)
	assert.Equal(t, original.Normalize(), loaded)
}

func TestResolvePathsUsesConfigDir(t *testing.T) {
	dir := t.TempDir()
	original := osUserConfigDir
	osUserConfigDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { osUserConfigDir = original })

	paths, err := ResolvePaths(AppSlug)
	require.NoError(t, err)

	base := filepath.Join(dir, AppSlug)
	assert.Equal(t, base, paths.BaseDir)
	assert.Equal(t, filepath.Join(base, "palettes.db"), paths.DBPath)
	assert.Equal(t, filepath.Join(base, "config.yaml"), paths.SettingsPath)
	assert.DirExists(t, paths.ThumbnailDir)
}
