package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"colorcapture/internal/clipboardx"
	"colorcapture/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	dir       string
	clipboard *clipboardx.Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{dir: t.TempDir(), clipboard: &clipboardx.Recorder{}}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd(Options{
		Version: "1.2.3",
		Out:     &out,
		Err:     &errOut,
		ResolvePaths: func() (config.Paths, error) {
			return config.ResolvePathsIn(filepath.Join(h.dir, "app"))
		},
		Clipboard: h.clipboard,
	})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeHalves writes a 4x4 PNG that is black on the left and white on the right.
func writeHalves(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := color.NRGBA{A: 255}
			if x >= 2 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	path := filepath.Join(dir, "halves.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
	return path
}

func TestExtractJSONUsesCacheOnSecondRun(t *testing.T) {
	h := newHarness(t)
	imagePath := writeHalves(t, h.dir)

	out, err := h.run(t, "extract", imagePath, "--json")
	require.NoError(t, err)

	var first extractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Equal(t, "png", first.Format)
	assert.Equal(t, 16, first.Sampled)
	assert.False(t, first.Cached)
	require.Len(t, first.Colors, 2)
	assert.ElementsMatch(t, []string{"#000000", "#ffffff"}, []string{first.Colors[0].Hex, first.Colors[1].Hex})
	assert.Equal(t, 8, first.Colors[0].Population)

	out, err = h.run(t, "extract", imagePath, "--json")
	require.NoError(t, err)

	var second extractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Colors, second.Colors)

	out, err = h.run(t, "extract", imagePath, "--json", "--no-cache")
	require.NoError(t, err)
	var uncached extractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &uncached))
	assert.False(t, uncached.Cached)
}

func TestExtractPrintsTable(t *testing.T) {
	h := newHarness(t)
	imagePath := writeHalves(t, h.dir)

	out, err := h.run(t, "extract", imagePath, "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "halves.png")
	assert.Contains(t, out, "#808080")
	assert.Contains(t, out, "100.0%")
}

func TestExtractWritesPreview(t *testing.T) {
	h := newHarness(t)
	imagePath := writeHalves(t, h.dir)
	previewPath := filepath.Join(h.dir, "preview.gif")

	_, err := h.run(t, "extract", imagePath, "--preview", previewPath)
	require.NoError(t, err)

	file, err := os.Open(previewPath)
	require.NoError(t, err)
	defer file.Close()
	decoded, err := gif.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 4, decoded.Bounds().Dx())
}

func TestExtractMissingFile(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "extract", filepath.Join(h.dir, "nope.png"))
	require.Error(t, err)
}

func TestGradientFromColors(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "gradient", "--hex", "#000000,#ffffff", "--steps", "3", "--css", "--copy")
	require.NoError(t, err)

	css := "linear-gradient(90deg, #000000 0%, #808080 50%, #ffffff 100%)"
	assert.Equal(t, css+"\n", out)
	assert.Equal(t, css, h.clipboard.Last())
}

func TestGradientJSONFromPicks(t *testing.T) {
	h := newHarness(t)
	imagePath := writeHalves(t, h.dir)

	out, err := h.run(t, "gradient", imagePath, "--pick", "1,2", "--steps", "3", "--json")
	require.NoError(t, err)

	var output gradientOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.Len(t, output.Colors, 3)
	assert.Equal(t, "#808080", output.Colors[1])
	assert.ElementsMatch(t, []string{"#000000", "#ffffff"}, output.Stops)
}

func TestGradientErrors(t *testing.T) {
	h := newHarness(t)
	imagePath := writeHalves(t, h.dir)

	_, err := h.run(t, "gradient", "--hex", "#000000")
	require.Error(t, err)

	_, err = h.run(t, "gradient", imagePath, "--pick", "9")
	require.ErrorContains(t, err, "out of range")

	_, err = h.run(t, "gradient")
	require.Error(t, err)

	_, err = h.run(t, "gradient", "--hex", "#000000,#ffffff", "--space", "xyz")
	require.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "config.yaml")

	_, err = h.run(t, "config", "init")
	require.ErrorContains(t, err, "already exists")

	_, err = h.run(t, "config", "init", "--force")
	require.NoError(t, err)

	out, err = h.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "paletteSize: 8")
	assert.Contains(t, out, "space: rgb")
}

func TestCacheListAndClear(t *testing.T) {
	h := newHarness(t)
	imagePath := writeHalves(t, h.dir)

	out, err := h.run(t, "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "cache is empty")

	_, err = h.run(t, "extract", imagePath)
	require.NoError(t, err)

	out, err = h.run(t, "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "halves.png")
	assert.Contains(t, out, "2: ")

	out, err = h.run(t, "cache", "clear")
	require.NoError(t, err)
	assert.Equal(t, "removed 1 cached palette\n", out)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "colorcapture 1.2.3 "))

	out, err = h.run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "colorcapture version 1.2.3\n", out)
}
