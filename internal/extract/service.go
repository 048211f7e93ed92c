package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"colorcapture/internal/imagesource"
	"colorcapture/internal/palette"
	"colorcapture/internal/store"
)

const defaultMemoryEntries = 96

// PaletteStore is the persistent cache consulted after the in-memory one.
type PaletteStore interface {
	Get(ctx context.Context, key string) (store.PaletteRecord, error)
	Put(ctx context.Context, record store.PaletteRecord) (store.PaletteRecord, error)
}

// Result is one extraction together with the image it came from.
type Result struct {
	Source   imagesource.Source `json:"source"`
	Palette  palette.Extraction `json:"palette"`
	CacheKey string             `json:"cacheKey"`
	Cached   bool               `json:"cached"`
	Elapsed  time.Duration      `json:"elapsed"`
}

type memoryEntry struct {
	result            Result
	sourceModUnixNano int64
	cachedAt          time.Time
}

type Config struct {
	Store         PaletteStore
	Logger        *slog.Logger
	MemoryEntries int
}

type Service struct {
	store      PaletteStore
	logger     *slog.Logger
	maxEntries int
	now        func() time.Time
	load       func(ctx context.Context, path string) (imagesource.Source, error)

	cacheMu sync.RWMutex
	cache   map[string]memoryEntry
}

func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxEntries := cfg.MemoryEntries
	if maxEntries <= 0 {
		maxEntries = defaultMemoryEntries
	}

	return &Service{
		store:      cfg.Store,
		logger:     logger,
		maxEntries: maxEntries,
		now:        time.Now,
		load:       imagesource.Load,
		cache:      make(map[string]memoryEntry),
	}
}

// FromPath extracts the palette of the image at path. Results are reused
// while the file is unchanged, without the decoded image (see
// imagesource.Source.WithImage); a changed file always gets a fresh
// extraction.
func (s *Service) FromPath(ctx context.Context, path string, options palette.Options) (Result, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return Result{}, errors.New("image path is required")
	}

	absPath, err := filepath.Abs(trimmedPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve image path: %w", err)
	}

	normalized := palette.NormalizeOptions(options)
	info, err := os.Stat(absPath)
	if err != nil {
		return Result{}, fmt.Errorf("open image: %w", err)
	}
	sourceModUnixNano := info.ModTime().UnixNano()

	memoryKey := buildMemoryKey(absPath, normalized)
	if cached, ok := s.loadMemory(memoryKey, sourceModUnixNano); ok {
		s.logger.Debug("palette served from memory", "path", absPath)
		return cached, nil
	}

	source, err := s.load(ctx, absPath)
	if err != nil {
		return Result{}, err
	}

	result, err := s.extract(ctx, source, normalized)
	if err != nil {
		return Result{}, err
	}

	s.storeMemory(memoryKey, sourceModUnixNano, result)
	return result, nil
}

// FromBytes extracts the palette of an in-memory image such as an upload.
// name is used for display and as the decoder hint.
func (s *Service) FromBytes(ctx context.Context, name string, data []byte, options palette.Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	source, err := imagesource.Decode(data, filepath.Ext(name))
	if err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", name, err)
	}
	source.Path = name
	source.Kind = imagesource.KindUpload
	source.ModTime = s.now()

	return s.extract(ctx, source, palette.NormalizeOptions(options))
}

func (s *Service) extract(ctx context.Context, source imagesource.Source, options palette.Options) (Result, error) {
	started := s.now()
	cacheKey := store.CacheKey(source.Hash, options)

	if s.store != nil {
		record, err := s.store.Get(ctx, cacheKey)
		switch {
		case err == nil:
			s.logger.Debug("palette served from cache", "path", source.Path, "key", cacheKey)
			return Result{
				Source:   source,
				Palette:  record.Extraction(),
				CacheKey: cacheKey,
				Cached:   true,
				Elapsed:  s.now().Sub(started),
			}, nil
		case errors.Is(err, store.ErrPaletteNotFound):
		default:
			s.logger.Warn("palette cache lookup failed", "key", cacheKey, "error", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	extraction, err := palette.ExtractFromImage(source.Image, options)
	if err != nil {
		return Result{}, fmt.Errorf("extract palette from %s: %w", source.Path, err)
	}

	result := Result{
		Source:   source,
		Palette:  extraction,
		CacheKey: cacheKey,
		Elapsed:  s.now().Sub(started),
	}
	s.logger.Info(
		"palette extracted",
		"path", source.Path,
		"colors", len(extraction.Colors),
		"sampled", extraction.Sampled,
		"stride", extraction.Stride,
		"elapsed", result.Elapsed,
	)

	if s.store != nil {
		if _, err := s.store.Put(ctx, store.PaletteRecord{
			Key:        cacheKey,
			ImageHash:  source.Hash,
			SourcePath: source.Path,
			Format:     source.Format,
			Width:      extraction.Width,
			Height:     extraction.Height,
			Sampled:    extraction.Sampled,
			Stride:     extraction.Stride,
			Options:    extraction.Options,
			Colors:     extraction.Colors,
		}); err != nil {
			s.logger.Warn("palette cache write failed", "key", cacheKey, "error", err)
		}
	}

	return result, nil
}

// ForgetMemory drops every in-memory result.
func (s *Service) ForgetMemory() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache = make(map[string]memoryEntry)
}

func buildMemoryKey(path string, options palette.Options) string {
	return fmt.Sprintf(
		"%s|p:%d|a:%d|b:%d|s:%d",
		path,
		options.PaletteSize,
		options.AlphaThreshold,
		options.SampleBudget,
		options.Stride,
	)
}

func (s *Service) loadMemory(key string, sourceModUnixNano int64) (Result, bool) {
	s.cacheMu.RLock()
	entry, ok := s.cache[key]
	s.cacheMu.RUnlock()
	if !ok || entry.sourceModUnixNano != sourceModUnixNano {
		return Result{}, false
	}

	result := entry.result
	result.Cached = true
	result.Elapsed = 0
	return result, true
}

func (s *Service) storeMemory(key string, sourceModUnixNano int64, result Result) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	// Only metadata is kept; the decoded pixels belong to the caller.
	result.Source.Image = nil
	s.cache[key] = memoryEntry{
		result:            result,
		sourceModUnixNano: sourceModUnixNano,
		cachedAt:          s.now(),
	}

	if len(s.cache) <= s.maxEntries {
		return
	}

	oldestKey := ""
	var oldestAt time.Time
	for key, entry := range s.cache {
		if oldestKey == "" || entry.cachedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.cachedAt
		}
	}

	if oldestKey != "" {
		delete(s.cache, oldestKey)
	}
}
