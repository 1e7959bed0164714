package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/port"
)

// ModeService holds the current feed mode and the feed behind each mode.
type ModeService struct {
	currentMode model.FeedMode
	feeds       map[model.FeedMode]port.FeedPort
	mu          sync.RWMutex
	logger      *slog.Logger
}

func NewModeService(initial model.FeedMode, feeds map[model.FeedMode]port.FeedPort, logger *slog.Logger) *ModeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModeService{
		currentMode: initial,
		feeds:       feeds,
		logger:      logger.With("component", "mode_service"),
	}
}

func (s *ModeService) SwitchMode(_ context.Context, mode model.FeedMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.feeds[mode]; !ok {
		return fmt.Errorf("no feed configured for mode %q", mode)
	}
	if s.currentMode == mode {
		return nil
	}

	s.logger.Info("mode updated", "old", s.currentMode, "new", mode)
	s.currentMode = mode
	return nil
}

func (s *ModeService) GetCurrentMode() model.FeedMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentMode
}

// Feed returns the feed for mode, or nil when none is configured.
func (s *ModeService) Feed(mode model.FeedMode) port.FeedPort {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feeds[mode]
}
