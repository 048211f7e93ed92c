package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"colorcapture/internal/extract"
	"colorcapture/internal/imagesource"
	"colorcapture/internal/palette"
	"colorcapture/internal/session"
)

// PaletteService is the frontend's entry point to extraction and the
// selection session.
type PaletteService struct {
	extractor *extract.Service
	session   *session.Service
	settings  *SettingsService

	optionsMu   sync.Mutex
	lastOptions palette.Options

	expiryMu sync.Mutex
	expiry   *time.Timer
}

func NewPaletteService(extractor *extract.Service, sessionService *session.Service, settings *SettingsService) *PaletteService {
	return &PaletteService{extractor: extractor, session: sessionService, settings: settings}
}

func (s *PaletteService) DefaultOptions() palette.Options {
	return s.settings.GetSettings().Extraction
}

func (s *PaletteService) GetState() session.State {
	return s.session.State()
}

// Extract loads the image or audio file at path. Zero options use the
// configured extraction settings. ctx is cancelled by the runtime when the
// window goes away.
func (s *PaletteService) Extract(ctx context.Context, path string, options palette.Options) (session.State, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return s.session.State(), errors.New("image path is required")
	}

	resolved := s.options(options)
	result, err := s.extractor.FromPath(ctx, trimmedPath, resolved)
	if err != nil {
		return s.session.State(), fmt.Errorf("extract palette: %w", err)
	}

	s.optionsMu.Lock()
	s.lastOptions = resolved
	s.optionsMu.Unlock()
	return s.session.Load(result), nil
}

// Reload extracts the loaded file again with the options it was loaded
// with. Uploads have no file to go back to.
func (s *PaletteService) Reload(ctx context.Context) (session.State, error) {
	result, ok := s.session.Result()
	if !ok {
		return s.session.State(), session.ErrNoPalette
	}
	if result.Source.Kind == imagesource.KindUpload || !filepath.IsAbs(result.Source.Path) {
		return s.session.State(), errors.New("the loaded image has no file to reload")
	}

	s.optionsMu.Lock()
	options := s.lastOptions
	s.optionsMu.Unlock()
	return s.Extract(ctx, result.Source.Path, options)
}

// ExtractUpload loads an image dropped onto the window.
func (s *PaletteService) ExtractUpload(ctx context.Context, name string, data []byte, options palette.Options) (session.State, error) {
	if len(data) == 0 {
		return s.session.State(), errors.New("upload is empty")
	}

	result, err := s.extractor.FromBytes(ctx, name, data, s.options(options))
	if err != nil {
		return s.session.State(), fmt.Errorf("extract palette: %w", err)
	}
	return s.session.Load(result), nil
}

func (s *PaletteService) Toggle(hex string) (session.State, error) {
	return s.session.Toggle(hex)
}

func (s *PaletteService) ClearSelection() session.State {
	return s.session.ClearSelection()
}

func (s *PaletteService) SetSpace(space string) (session.State, error) {
	parsed, err := palette.ParseSpace(space)
	if err != nil {
		return s.session.State(), err
	}
	return s.session.SetSpace(parsed), nil
}

// GenerateGradient blends the selection; steps <= 0 uses the configured
// step count.
func (s *PaletteService) GenerateGradient(steps int) (session.State, error) {
	if steps <= 0 {
		steps = s.settings.GetSettings().Gradient.Steps
	}
	return s.session.GenerateGradient(steps)
}

// Copy puts the text behind target on the clipboard. Targets are
// "palette:<hex>", "gradient:<index>" and "gradient-css".
func (s *PaletteService) Copy(target string) (session.State, error) {
	_, state, err := s.session.Copy(target)
	if err != nil {
		return state, err
	}
	s.scheduleExpiry()
	return state, nil
}

func (s *PaletteService) options(options palette.Options) palette.Options {
	if options == (palette.Options{}) {
		return s.settings.GetSettings().Extraction
	}
	return palette.NormalizeOptions(options)
}

// scheduleExpiry re-emits the state when the next acknowledgement ends.
func (s *PaletteService) scheduleExpiry() {
	expiresAt, ok := s.session.NextExpiry()
	if !ok {
		return
	}

	s.expiryMu.Lock()
	defer s.expiryMu.Unlock()
	if s.expiry != nil {
		s.expiry.Stop()
	}
	s.expiry = time.AfterFunc(time.Until(expiresAt), func() {
		s.session.Refresh()
		s.scheduleExpiry()
	})
}

func (s *PaletteService) Close() {
	s.expiryMu.Lock()
	defer s.expiryMu.Unlock()
	if s.expiry != nil {
		s.expiry.Stop()
		s.expiry = nil
	}
}
