package hosthub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joshua-takyi/tower15/internal/config"
	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitchSimulatesWithoutAnyKey(t *testing.T) {
	s := NewSwitch(config.HosthubConfig{SimulationSeed: 7}, nil)
	assert.False(t, s.Live())

	id, err := s.PushBooking(context.Background(), models.ReservationPush{ListingID: "0000201"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "sim-"))

	_, err = s.GetListings(context.Background())
	assert.True(t, errors.Is(err, ErrNoAPIKey))
}

func TestSwitchUsesSettingsKeyOverEnv(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[{"date":"2025-06-01","status":"available","price":95}]`))
	}))
	defer srv.Close()

	s := NewSwitch(config.HosthubConfig{BaseURL: srv.URL, APIKey: "env-key", Timeout: time.Second}, nil)
	assert.True(t, s.Live())

	s.Configure("  saved-key ")
	w, err := s.GetAvailability(context.Background(), "0000201", day("2025-06-01"), day("2025-06-01"))
	require.NoError(t, err)
	require.Len(t, w, 1)
	assert.Equal(t, "Bearer saved-key", auth)

	// clearing the saved key falls back to the env key
	s.Configure("")
	_, err = s.GetAvailability(context.Background(), "0000201", day("2025-06-01"), day("2025-06-01"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer env-key", auth)
}

func TestSwitchReturnsToSimulationWhenKeyRemoved(t *testing.T) {
	s := NewSwitch(config.HosthubConfig{SimulationSeed: 3}, nil)
	s.Configure("saved-key")
	assert.True(t, s.Live())

	s.Configure("")
	assert.False(t, s.Live())
	w, err := s.GetAvailability(context.Background(), "0000201", day("2025-06-01"), day("2025-06-03"))
	require.NoError(t, err)
	assert.Len(t, w, 3)
}
