package alphavantage

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-key", zerolog.Nop())

	assert.NotNil(t, client)
	assert.Equal(t, "test-key", client.apiKey)
	assert.Equal(t, 25, client.GetRemainingRequests())
}

func TestRateLimiting(t *testing.T) {
	client := NewClient("test-key", zerolog.Nop())

	for i := 0; i < 25; i++ {
		remaining := client.GetRemainingRequests()
		assert.Equal(t, 25-i, remaining)
		err := client.checkRateLimit()
		require.NoError(t, err)
	}

	// 26th request should fail
	err := client.checkRateLimit()
	assert.Error(t, err)
	assert.IsType(t, ErrRateLimitExceeded{}, err)
}

func TestResetDailyCounter(t *testing.T) {
	client := NewClient("test-key", zerolog.Nop())

	for i := 0; i < 10; i++ {
		_ = client.checkRateLimit()
	}
	assert.Equal(t, 15, client.GetRemainingRequests())

	client.ResetDailyCounter()
	assert.Equal(t, 25, client.GetRemainingRequests())
}

func TestCaching(t *testing.T) {
	client := NewClient("test-key", zerolog.Nop())

	client.setCache("test-key", Indicator{Value: 3.1}, time.Hour)

	cached, ok := client.getFromCache("test-key")
	assert.True(t, ok)
	assert.Equal(t, 3.1, cached.Value)

	_, ok = client.getFromCache("non-existent")
	assert.False(t, ok)
}

func TestCacheExpiration(t *testing.T) {
	client := NewClient("test-key", zerolog.Nop())

	client.setCache("test-key", Indicator{Value: 1.0}, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := client.getFromCache("test-key")
	assert.False(t, ok)
}

func TestClearCache(t *testing.T) {
	client := NewClient("test-key", zerolog.Nop())

	client.setCache("key1", Indicator{Value: 1.0}, time.Hour)
	client.setCache("key2", Indicator{Value: 2.0}, time.Hour)

	client.ClearCache()

	_, ok1 := client.getFromCache("key1")
	_, ok2 := client.getFromCache("key2")
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		function string
		params   map[string]string
	}{
		{
			name:     "simple function",
			function: "CPI",
			params:   map[string]string{"interval": "monthly"},
		},
		{
			name:     "multiple params",
			function: "REAL_GDP",
			params: map[string]string{
				"interval": "quarterly",
				"datatype": "json",
			},
		},
		{
			name:     "apikey excluded",
			function: "FEDERAL_FUNDS_RATE",
			params: map[string]string{
				"interval": "monthly",
				"apikey":   "secret",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := buildCacheKey(tt.function, tt.params)
			assert.Contains(t, key, tt.function)
			assert.NotContains(t, key, "apikey=")
			assert.NotContains(t, key, "secret")
		})
	}
}

// Without an API key every getter returns its pinned fallback and never
// errors.
func TestFallbackWithoutAPIKey(t *testing.T) {
	client := NewClient("", zerolog.Nop())
	ctx := context.Background()

	cpi := client.GetCPIYoY(ctx)
	assert.True(t, cpi.Fallback)
	assert.Equal(t, FallbackCPIYoY, cpi.Value)

	rate := client.GetFederalFundsRate(ctx)
	assert.True(t, rate.Fallback)
	assert.Equal(t, FallbackFedRate, rate.Value)

	gdp := client.GetGDPGrowth(ctx)
	assert.True(t, gdp.Fallback)
	assert.Equal(t, FallbackGDPGrowth, gdp.Value)

	// No request budget was consumed.
	assert.Equal(t, 25, client.GetRemainingRequests())
}

func TestYoYChange(t *testing.T) {
	assert.InDelta(t, 10.0, yoyChange(110, 100), 1e-9)
	assert.InDelta(t, -5.0, yoyChange(95, 100), 1e-9)
	assert.Equal(t, 0.0, yoyChange(100, 0))
}
