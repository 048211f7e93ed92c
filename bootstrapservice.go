package main

import (
	"context"

	"colorcapture/internal/config"
	"colorcapture/internal/session"
	"colorcapture/internal/store"
)

const defaultBootstrapHistoryLimit = 12

type StartupSnapshot struct {
	Session     session.State         `json:"session"`
	Settings    config.Settings       `json:"settings"`
	Recent      []store.PaletteRecord `json:"recent"`
	WatchStatus WatchStatus           `json:"watchStatus"`
}

type BootstrapService struct {
	repo     *store.PaletteRepository
	palettes *PaletteService
	settings *SettingsService
	watch    *WatchService
}

func NewBootstrapService(
	repo *store.PaletteRepository,
	palettes *PaletteService,
	settings *SettingsService,
	watch *WatchService,
) *BootstrapService {
	return &BootstrapService{
		repo:     repo,
		palettes: palettes,
		settings: settings,
		watch:    watch,
	}
}

func (s *BootstrapService) GetInitialState(historyLimit int) (StartupSnapshot, error) {
	if historyLimit <= 0 {
		historyLimit = defaultBootstrapHistoryLimit
	}

	recent, err := s.repo.ListRecent(context.Background(), historyLimit)
	if err != nil {
		return StartupSnapshot{}, err
	}

	return StartupSnapshot{
		Session:     s.palettes.GetState(),
		Settings:    s.settings.GetSettings(),
		Recent:      recent,
		WatchStatus: s.watch.GetStatus(),
	}, nil
}
