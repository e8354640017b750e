package hosthub

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/tower15/internal/models"
)

var ErrNoAPIKey = errors.New("missing Hosthub API key in settings")

// ChannelManager is what the booking flow and the admin import need from Hosthub.
type ChannelManager interface {
	GetAvailability(ctx context.Context, listingID string, from, to time.Time) (models.AvailabilityWindow, error)
	PushBooking(ctx context.Context, push models.ReservationPush) (string, error)
	GetListings(ctx context.Context) ([]Listing, error)
}

const (
	simulatedPrice   = 280
	simulatedMinStay = 2
)

// Simulator stands in for Hosthub in development. Each day is independently
// reported occupied with the configured probability.
type Simulator struct {
	Occupancy float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulator(occupancy float64, seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		Occupancy: occupancy,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (s *Simulator) GetAvailability(ctx context.Context, listingID string, from, to time.Time) (models.AvailabilityWindow, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid range %s..%s", from.Format(models.DateLayout), to.Format(models.DateLayout))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var window models.AvailabilityWindow
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		window = append(window, models.AvailabilityDay{
			Date:      d.Format(models.DateLayout),
			Available: s.rng.Float64() >= s.Occupancy,
			Price:     simulatedPrice,
			MinStay:   simulatedMinStay,
		})
	}
	return window, nil
}

func (s *Simulator) PushBooking(ctx context.Context, push models.ReservationPush) (string, error) {
	return "sim-" + uuid.NewString(), nil
}

func (s *Simulator) GetListings(ctx context.Context) ([]Listing, error) {
	return nil, ErrNoAPIKey
}
