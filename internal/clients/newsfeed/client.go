// Package newsfeed fetches recent market headlines from the configured feed.
package newsfeed

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

	"github.com/aristath/advisor/internal/domain"
)

// Config holds news feed client configuration
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
}

// Client fetches market headlines over HTTP. A client with no BaseURL
// reports headlines as unavailable; the classifier then runs text-only and
// flags the assessment as synthetic.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries uint64
	log        zerolog.Logger
}

// NewClient creates a new news feed client
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
		log:        log.With().Str("component", "newsfeed_client").Logger(),
	}
}

type headlinesResponse struct {
	Headlines []string `json:"headlines"`
}

// FetchHeadlines returns up to limit recent headlines. Failures are reported
// as domain.ErrDataUnavailable.
func (c *Client) FetchHeadlines(ctx context.Context, limit int) ([]string, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: no news feed configured", domain.ErrDataUnavailable)
	}

	endpoint := fmt.Sprintf("%s/v1/headlines?%s", c.baseURL, url.Values{
		"limit": {strconv.Itoa(limit)},
	}.Encode())

	var parsed headlinesResponse
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
			return fmt.Errorf("feed returned status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&parsed)
	}

	strategy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)

	if err := backoff.Retry(operation, strategy); err != nil {
		c.log.Warn().Err(err).Msg("Headline fetch exhausted retries")
		return nil, fmt.Errorf("%w: headlines: %v", domain.ErrDataUnavailable, err)
	}

	if len(parsed.Headlines) > limit {
		parsed.Headlines = parsed.Headlines[:limit]
	}
	return parsed.Headlines, nil
}
