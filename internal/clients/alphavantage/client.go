// Package alphavantage provides a client for the Alpha Vantage economic
// indicator endpoints (CPI, federal funds rate, real GDP).
//
// The free tier allows 25 requests per day, so the client tracks a daily
// request counter and caches responses aggressively. When the key is missing,
// the limit is exhausted, or a call fails, callers receive pinned fallback
// values instead of an error - macro data must never fail a request.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	baseURL       = "https://www.alphavantage.co/query"
	dailyLimit    = 25
	indicatorTTL  = 12 * time.Hour
	clientTimeout = 10 * time.Second
)

// Fallback values used when the API is not available. Kept close to recent
// published figures so offline output stays plausible.
const (
	FallbackCPIYoY    = 3.2
	FallbackFedRate   = 5.25
	FallbackGDPGrowth = 2.8
)

// ErrRateLimitExceeded is returned when the daily request budget is spent.
type ErrRateLimitExceeded struct {
	Limit int
}

func (e ErrRateLimitExceeded) Error() string {
	return fmt.Sprintf("alpha vantage daily limit of %d requests exceeded", e.Limit)
}

// Indicator is one macro indicator reading.
type Indicator struct {
	Value    float64 // latest value (or derived change, see each getter)
	Date     string
	Fallback bool // true when the pinned fallback was used
}

type cacheEntry struct {
	indicator Indicator
	expiresAt time.Time
}

// Client is a rate-limited, caching Alpha Vantage client.
type Client struct {
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger

	mu           sync.Mutex
	requestCount int
	cache        map[string]cacheEntry
}

// NewClient creates a new Alpha Vantage client. An empty apiKey is allowed;
// every getter then returns its fallback value.
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: clientTimeout},
		cache:      make(map[string]cacheEntry),
		log:        log.With().Str("component", "alphavantage_client").Logger(),
	}
}

// GetRemainingRequests returns the remaining daily request budget.
func (c *Client) GetRemainingRequests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return dailyLimit - c.requestCount
}

// ResetDailyCounter resets the daily request counter. Called by the
// scheduler at midnight.
func (c *Client) ResetDailyCounter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestCount = 0
}

// ClearCache drops all cached indicator values.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
}

// GetCPIYoY returns the year-over-year CPI change in percent.
func (c *Client) GetCPIYoY(ctx context.Context) Indicator {
	return c.getIndicator(ctx, "CPI", map[string]string{"interval": "monthly"}, FallbackCPIYoY, yoyChange)
}

// GetFederalFundsRate returns the latest federal funds rate in percent.
func (c *Client) GetFederalFundsRate(ctx context.Context) Indicator {
	return c.getIndicator(ctx, "FEDERAL_FUNDS_RATE", map[string]string{"interval": "monthly"}, FallbackFedRate, latestValue)
}

// GetGDPGrowth returns the latest quarter-over-quarter real GDP growth in
// percent.
func (c *Client) GetGDPGrowth(ctx context.Context) Indicator {
	return c.getIndicator(ctx, "REAL_GDP", map[string]string{"interval": "quarterly"}, FallbackGDPGrowth, yoyChange)
}

// indicatorResponse is Alpha Vantage's wire format: a series of dated values,
// newest first.
type indicatorResponse struct {
	Data []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"data"`
}

// derive functions turn a raw series into the reported indicator value.
func latestValue(latest, _ float64) float64 { return latest }

func yoyChange(latest, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (latest - previous) / previous * 100
}

func (c *Client) getIndicator(
	ctx context.Context,
	function string,
	params map[string]string,
	fallback float64,
	derive func(latest, previous float64) float64,
) Indicator {
	if c.apiKey == "" {
		return Indicator{Value: fallback, Fallback: true}
	}

	key := buildCacheKey(function, params)
	if cached, ok := c.getFromCache(key); ok {
		return cached
	}

	if err := c.checkRateLimit(); err != nil {
		c.log.Warn().Err(err).Str("function", function).Msg("Using fallback indicator value")
		return Indicator{Value: fallback, Fallback: true}
	}

	resp, err := c.fetch(ctx, function, params)
	if err != nil || len(resp.Data) == 0 {
		c.log.Warn().Err(err).Str("function", function).Msg("Indicator fetch failed, using fallback")
		return Indicator{Value: fallback, Fallback: true}
	}

	latest, err := strconv.ParseFloat(resp.Data[0].Value, 64)
	if err != nil {
		return Indicator{Value: fallback, Fallback: true}
	}
	previous := latest
	if len(resp.Data) > 1 {
		if v, err := strconv.ParseFloat(resp.Data[1].Value, 64); err == nil {
			previous = v
		}
	}

	indicator := Indicator{
		Value: derive(latest, previous),
		Date:  resp.Data[0].Date,
	}
	c.setCache(key, indicator, indicatorTTL)
	return indicator
}

func (c *Client) fetch(ctx context.Context, function string, params map[string]string) (*indicatorResponse, error) {
	values := url.Values{
		"function": {function},
		"apikey":   {c.apiKey},
	}
	for k, v := range params {
		values.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpha vantage returned status %d", resp.StatusCode)
	}

	var parsed indicatorResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (c *Client) checkRateLimit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.requestCount >= dailyLimit {
		return ErrRateLimitExceeded{Limit: dailyLimit}
	}
	c.requestCount++
	return nil
}

func (c *Client) getFromCache(key string) (Indicator, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return Indicator{}, false
	}
	return entry.indicator, true
}

func (c *Client) setCache(key string, indicator Indicator, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{indicator: indicator, expiresAt: time.Now().Add(ttl)}
}

// buildCacheKey builds a deterministic cache key from the function name and
// parameters, excluding the API key.
func buildCacheKey(function string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "apikey" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, function)
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return strings.Join(parts, "&")
}
