package main

import (
	"context"
	"errors"
	"fmt"

	"colorcapture/internal/session"
	"colorcapture/internal/store"
)

const defaultHistoryLimit = 50

// HistoryService exposes the palette cache as a list of recent images.
type HistoryService struct {
	repo     *store.PaletteRepository
	palettes *PaletteService
}

func NewHistoryService(repo *store.PaletteRepository, palettes *PaletteService) *HistoryService {
	return &HistoryService{repo: repo, palettes: palettes}
}

func (s *HistoryService) ListRecent(ctx context.Context, limit int) ([]store.PaletteRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.ListRecent(ctx, limit)
}

// Reopen extracts the image behind a history entry again with the options
// it was cached under.
func (s *HistoryService) Reopen(ctx context.Context, key string) (session.State, error) {
	record, err := s.repo.Get(ctx, key)
	if errors.Is(err, store.ErrPaletteNotFound) {
		return s.palettes.GetState(), fmt.Errorf("history entry %q does not exist", key)
	}
	if err != nil {
		return s.palettes.GetState(), err
	}
	return s.palettes.Extract(ctx, record.SourcePath, record.Options)
}

func (s *HistoryService) Delete(ctx context.Context, key string) error {
	err := s.repo.Delete(ctx, key)
	if errors.Is(err, store.ErrPaletteNotFound) {
		return fmt.Errorf("history entry %q does not exist", key)
	}
	return err
}

func (s *HistoryService) Clear(ctx context.Context) (int64, error) {
	return s.repo.Clear(ctx)
}
