// Package marketdata fetches historical close series from the configured
// market data provider.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aristath/advisor/internal/domain"
)

// Config holds market data client configuration
type Config struct {
	BaseURL        string
	Timeout        time.Duration // per-attempt timeout
	MaxRetries     uint64
	RequestsPerSec int
}

// Client fetches daily close series over HTTP with rate limiting and
// exponential backoff retries. A client with no BaseURL reports every series
// as unavailable, which pushes the universe onto synthetic data.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	maxRetries uint64
	log        zerolog.Logger
}

// NewClient creates a new market data client
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RequestsPerSec == 0 {
		cfg.RequestsPerSec = 5
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.RequestsPerSec),
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
		log:        log.With().Str("component", "marketdata_client").Logger(),
	}
}

// seriesResponse is the provider's wire format for a daily close series.
type seriesResponse struct {
	Symbol string    `json:"symbol"`
	Closes []float64 `json:"closes"`
}

// FetchDailyCloses returns up to `days` daily closes for the symbol, oldest
// first. Exhausted retries are reported as domain.ErrDataUnavailable so the
// caller can fall back to a synthetic series.
func (c *Client) FetchDailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: no provider configured", domain.ErrDataUnavailable)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}

	endpoint := fmt.Sprintf("%s/v1/daily?%s", c.baseURL, url.Values{
		"symbol": {symbol},
		"days":   {strconv.Itoa(days)},
	}.Encode())

	var series seriesResponse
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("provider returned status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&series)
	}

	strategy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)

	if err := backoff.Retry(operation, strategy); err != nil {
		c.log.Warn().
			Str("symbol", symbol).
			Err(err).
			Msg("Daily closes fetch exhausted retries")
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, symbol, err)
	}

	if len(series.Closes) < 2 {
		return nil, fmt.Errorf("%w: %s: series too short (%d points)", domain.ErrDataUnavailable, symbol, len(series.Closes))
	}

	return series.Closes, nil
}
