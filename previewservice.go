package main

import (
	"log/slog"

	"colorcapture/internal/imagesource"
	"colorcapture/internal/preview"
	"colorcapture/internal/session"
)

// PreviewService mounts the preview handler at /preview for the webview.
type PreviewService struct {
	*preview.Handler
}

func NewPreviewService(sessionService *session.Service, thumbnailDir string, logger *slog.Logger) *PreviewService {
	current := func() (imagesource.Source, bool) {
		result, ok := sessionService.Result()
		return result.Source, ok
	}
	return &PreviewService{Handler: preview.NewHandler(current, thumbnailDir, logger)}
}
