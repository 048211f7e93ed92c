package main

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"

	"colorcapture/internal/imagesource"
	"colorcapture/internal/session"
	"colorcapture/internal/watcher"
)

const EventWatchStatus = "watch:status"

type WatchStatus struct {
	Active bool   `json:"active"`
	Path   string `json:"path"`
	Error  string `json:"error,omitempty"`
}

// WatchService re-extracts the loaded image whenever its file changes.
type WatchService struct {
	palettes *PaletteService
	logger   *slog.Logger

	mu     sync.Mutex
	status WatchStatus
	cancel context.CancelFunc
	done   chan struct{}
	emit   func(eventName string, payload any)
}

func NewWatchService(palettes *PaletteService, logger *slog.Logger) *WatchService {
	return &WatchService{palettes: palettes, logger: logger}
}

func (s *WatchService) SetEmitter(emitter func(eventName string, payload any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit = emitter
}

func (s *WatchService) GetStatus() WatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// WatchLoaded starts watching the file behind the loaded palette, replacing
// any earlier watch.
func (s *WatchService) WatchLoaded() (WatchStatus, error) {
	state := s.palettes.GetState()
	if !state.Loaded {
		return s.GetStatus(), session.ErrNoPalette
	}
	if state.Source.Kind == string(imagesource.KindUpload) || !filepath.IsAbs(state.Source.Path) {
		return s.GetStatus(), errors.New("the loaded image has no file to watch")
	}

	w, err := watcher.New(state.Source.Path, 0, s.logger)
	if err != nil {
		return s.GetStatus(), err
	}

	s.StopWatching()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.status = WatchStatus{Active: true, Path: w.Path()}
	status := s.status
	s.mu.Unlock()
	s.emitStatus(status)

	go func() {
		defer close(done)
		err := w.Run(ctx, func() {
			if _, err := s.palettes.Reload(ctx); err != nil {
				s.logger.Warn("reload after change failed", "path", w.Path(), "error", err)
			}
		})

		s.mu.Lock()
		s.status.Active = false
		if err != nil {
			s.status.Error = err.Error()
		}
		status := s.status
		s.mu.Unlock()
		s.emitStatus(status)
	}()

	return status, nil
}

func (s *WatchService) StopWatching() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *WatchService) emitStatus(status WatchStatus) {
	s.mu.Lock()
	emitter := s.emit
	s.mu.Unlock()

	if emitter != nil {
		emitter(EventWatchStatus, status)
	}
}
