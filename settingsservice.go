package main

import (
	"sync"

	"colorcapture/internal/config"
)

type SettingsService struct {
	path string

	mu       sync.RWMutex
	current  config.Settings
	onChange func(config.Settings)
}

func NewSettingsService(path string, current config.Settings) *SettingsService {
	return &SettingsService{path: path, current: current.Normalize()}
}

// SetOnChange registers a callback run after settings are saved.
func (s *SettingsService) SetOnChange(listener func(config.Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = listener
}

func (s *SettingsService) GetSettings() config.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SaveSettings normalizes settings, writes them to the user settings file
// and returns what was stored.
func (s *SettingsService) SaveSettings(settings config.Settings) (config.Settings, error) {
	normalized := settings.Normalize()
	if err := normalized.Save(s.path); err != nil {
		return s.GetSettings(), err
	}

	s.mu.Lock()
	s.current = normalized
	listener := s.onChange
	s.mu.Unlock()

	if listener != nil {
		listener(normalized)
	}
	return normalized, nil
}

func (s *SettingsService) ResetSettings() (config.Settings, error) {
	return s.SaveSettings(config.DefaultSettings())
}
