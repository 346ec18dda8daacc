package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/aristath/advisor/internal/domain"
)

// The limiter must sustain RequestsPerSec, not one request per second with a
// burst allowance.
func TestNewClientLimiterRate(t *testing.T) {
	c := NewClient(Config{RequestsPerSec: 8}, zerolog.Nop())
	assert.Equal(t, rate.Limit(8), c.limiter.Limit())
	assert.Equal(t, 8, c.limiter.Burst())

	c = NewClient(Config{}, zerolog.Nop())
	assert.Equal(t, rate.Limit(5), c.limiter.Limit())
}

func TestFetchDailyCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLD", r.URL.Query().Get("symbol"))
		assert.Equal(t, "252", r.URL.Query().Get("days"))
		w.Write([]byte(`{"symbol":"GLD","closes":[100,101,102]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}, zerolog.Nop())
	closes, err := c.FetchDailyCloses(context.Background(), "GLD", 252)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 101, 102}, closes)
}

func TestFetchDailyClosesNoProvider(t *testing.T) {
	c := NewClient(Config{}, zerolog.Nop())
	_, err := c.FetchDailyCloses(context.Background(), "GLD", 252)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestFetchDailyClosesShortSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"symbol":"GLD","closes":[100]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}, zerolog.Nop())
	_, err := c.FetchDailyCloses(context.Background(), "GLD", 252)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}
