package hosthub

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/tower15/internal/config"
	"github.com/joshua-takyi/tower15/internal/models"
)

// Switch is the ChannelManager handed to the services. It routes to the live client
// when an API key is known and to the simulator otherwise. The key saved in the CMS
// settings wins over HOSTHUB_API_KEY.
type Switch struct {
	cfg    config.HosthubConfig
	logger *slog.Logger
	sim    *Simulator

	mu      sync.RWMutex
	key     string
	current ChannelManager
}

func NewSwitch(cfg config.HosthubConfig, logger *slog.Logger) *Switch {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Switch{
		cfg:    cfg,
		logger: logger,
		sim:    NewSimulator(cfg.SimulatedOccupancy, cfg.SimulationSeed),
	}
	s.Configure("")
	return s
}

// Configure selects the backend for the settings key. An empty key falls back to the
// configured env key, then to simulation mode.
func (s *Switch) Configure(apiKey string) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		key = s.cfg.APIKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && key == s.key {
		return
	}
	s.key = key
	if key == "" {
		s.logger.Warn("No Hosthub API key configured, using simulation mode")
		s.current = s.sim
		return
	}
	s.logger.Info("Hosthub live mode enabled")
	s.current = NewClient(s.cfg.BaseURL, key, s.cfg.Timeout, s.logger)
}

// Live reports whether calls go to Hosthub rather than the simulator.
func (s *Switch) Live() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key != ""
}

func (s *Switch) backend() ChannelManager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Switch) GetAvailability(ctx context.Context, listingID string, from, to time.Time) (models.AvailabilityWindow, error) {
	return s.backend().GetAvailability(ctx, listingID, from, to)
}

func (s *Switch) PushBooking(ctx context.Context, push models.ReservationPush) (string, error) {
	return s.backend().PushBooking(ctx, push)
}

func (s *Switch) GetListings(ctx context.Context) ([]Listing, error) {
	return s.backend().GetListings(ctx)
}
