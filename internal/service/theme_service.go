package service

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

// ThemeService holds the day/night display mode.
// It always starts in night mode and nothing is persisted.
type ThemeService struct {
	// Dependencies (injected)
	logger *slog.Logger
	bus    ports.EventBus

	theme domain.Theme
	mu    sync.RWMutex
}

// NewThemeService creates a theme service in night mode.
func NewThemeService(logger *slog.Logger, bus ports.EventBus) *ThemeService {
	return &ThemeService{
		logger: logger,
		bus:    bus,
		theme:  domain.ThemeNight,
	}
}

// Toggle flips the theme and publishes its preset.
func (s *ThemeService) Toggle() domain.Theme {
	s.mu.Lock()
	s.theme = s.theme.Toggled()
	theme := s.theme
	s.mu.Unlock()

	s.logger.Debug("theme toggled", slog.String("theme", theme.String()))
	s.bus.Publish(domain.NewThemeToggledEvent(theme.Preset()))
	return theme
}

// Current returns the active theme.
func (s *ThemeService) Current() domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}
