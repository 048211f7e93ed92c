package preview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"colorcapture/internal/imagesource"
	"colorcapture/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 60), G: 30, B: uint8(y * 60), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func current(source imagesource.Source) CurrentFunc {
	return func() (imagesource.Source, bool) { return source, true }
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServesOriginalFile(t *testing.T) {
	dir := t.TempDir()
	data := pngBytes(t)
	path := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	source, err := imagesource.Load(context.Background(), path)
	require.NoError(t, err)

	handler := NewHandler(current(source), filepath.Join(dir, "thumbs"), logging.Discard())
	rec := get(t, handler, "/preview?hash="+source.Hash)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, data, rec.Body.Bytes())
}

func TestUploadHasNoOriginalOnDisk(t *testing.T) {
	dir := t.TempDir()
	data := pngBytes(t)

	// A file with the upload's name and bytes must not be served in its place.
	path := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	source, err := imagesource.Decode(data, ".png")
	require.NoError(t, err)
	source.Path = path
	source.Kind = imagesource.KindUpload

	handler := NewHandler(current(source), filepath.Join(dir, "thumbs"), logging.Discard())
	rec := get(t, handler, "/preview?variant=original&hash="+source.Hash)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	source.Image = nil
	handler = NewHandler(current(source), filepath.Join(dir, "thumbs"), logging.Discard())
	rec = get(t, handler, "/preview?variant=thumb&hash="+source.Hash)
	assert.Equal(t, http.StatusNotFound, rec.Code, "an upload without pixels cannot be thumbnailed")
}

func TestThumbnailFromReloadedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o644))

	source, err := imagesource.Load(context.Background(), path)
	require.NoError(t, err)
	source.Image = nil

	thumbDir := filepath.Join(dir, "thumbs")
	handler := NewHandler(current(source), thumbDir, logging.Discard())
	rec := get(t, handler, "/preview?variant=thumb&hash="+source.Hash)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
	assert.FileExists(t, imagesource.ThumbnailPath(thumbDir, source.Hash, imagesource.VariantThumb))
}

func TestServesCachedThumbnailWithoutSession(t *testing.T) {
	dir := t.TempDir()
	hash := strings.Repeat("ab", 32)
	thumb := imagesource.ThumbnailPath(dir, hash, imagesource.VariantPreview)
	require.NoError(t, os.WriteFile(thumb, []byte("avif"), 0o644))

	handler := NewHandler(nil, dir, logging.Discard())
	rec := get(t, handler, "/preview?variant=preview&hash="+hash)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "avif", rec.Body.String())

	rec = get(t, handler, "/preview?variant=thumb&hash="+hash)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRejectsBadRequests(t *testing.T) {
	handler := NewHandler(nil, t.TempDir(), logging.Discard())

	rec := get(t, handler, "/preview?hash=nothex")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/preview?hash="+strings.Repeat("ab", 32), nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}
