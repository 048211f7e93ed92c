// Package preview serves the loaded image and its AVIF thumbnails over HTTP
// at ?hash=<sha256>&variant=original|thumb|preview.
package preview

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"colorcapture/internal/imagesource"

	"go.senan.xyz/taglib"
)

// CurrentFunc returns the image whose palette is on screen, if any.
type CurrentFunc func() (imagesource.Source, bool)

type Handler struct {
	current      CurrentFunc
	thumbnailDir string
	logger       *slog.Logger
}

func NewHandler(current CurrentFunc, thumbnailDir string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{current: current, thumbnailDir: strings.TrimSpace(thumbnailDir), logger: logger}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		rw.Header().Set("Allow", "GET, HEAD")
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hash := strings.ToLower(strings.TrimSpace(req.URL.Query().Get("hash")))
	if !imagesource.IsValidHash(hash) {
		http.Error(rw, "missing or invalid image hash", http.StatusBadRequest)
		return
	}
	variant := imagesource.NormalizeVariant(req.URL.Query().Get("variant"))

	source, loaded := h.loadedSource(hash)

	if variant == imagesource.VariantOriginal {
		if !loaded || !h.serveOriginal(rw, req, source) {
			http.Error(rw, "image not found", http.StatusNotFound)
		}
		return
	}

	path := imagesource.ThumbnailPath(h.thumbnailDir, hash, variant)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		if !loaded {
			http.Error(rw, "image not found", http.StatusNotFound)
			return
		}
		source, err = source.WithImage(req.Context())
		if err != nil {
			h.logger.Warn("thumbnail source unavailable", "hash", hash, "error", err)
			http.Error(rw, "image not found", http.StatusNotFound)
			return
		}
		path, err = imagesource.EnsureThumbnail(h.thumbnailDir, source, variant)
		if err != nil {
			h.logger.Warn("thumbnail failed", "hash", hash, "variant", variant, "error", err)
			http.Error(rw, "thumbnail unavailable", http.StatusInternalServerError)
			return
		}
	}

	rw.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeFile(rw, req, path)
}

// loadedSource returns the current image when its content hash matches.
func (h *Handler) loadedSource(hash string) (imagesource.Source, bool) {
	if h.current == nil {
		return imagesource.Source{}, false
	}
	source, ok := h.current()
	if !ok || !strings.EqualFold(source.Hash, hash) {
		return imagesource.Source{}, false
	}
	return source, true
}

// serveOriginal writes the bytes the image was decoded from. Uploads only
// ever existed in memory, so they have no original to serve.
func (h *Handler) serveOriginal(rw http.ResponseWriter, req *http.Request, source imagesource.Source) bool {
	sourcePath := strings.TrimSpace(source.Path)
	if sourcePath == "" {
		return false
	}

	switch source.Kind {
	case imagesource.KindFile:
		info, err := os.Stat(sourcePath)
		if err != nil || info.IsDir() {
			return false
		}
		http.ServeFile(rw, req, sourcePath)
		return true
	case imagesource.KindEmbedded:
		imageData, err := taglib.ReadImage(sourcePath)
		if err != nil || len(imageData) == 0 {
			return false
		}
		rw.Header().Set("Content-Type", http.DetectContentType(imageData))
		if req.Method == http.MethodHead {
			return true
		}
		if _, err := rw.Write(imageData); err != nil {
			h.logger.Debug("write original image", "path", sourcePath, "error", err)
		}
		return true
	default:
		return false
	}
}
