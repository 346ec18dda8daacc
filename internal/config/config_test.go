package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "./data/series_cache.db", cfg.SeriesCachePath)
	assert.Equal(t, 4, cfg.MaxAssets)
	assert.Equal(t, int64(42), cfg.SyntheticSeed)
	assert.Equal(t, 10000, cfg.RiskSimulations)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "@hourly", cfg.RefreshSchedule)
	assert.Equal(t, "@midnight", cfg.ResetSchedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_ASSETS", "6")
	t.Setenv("SYNTHETIC_SEED", "7")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("SERIES_CACHE_PATH", "/tmp/cache.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 6, cfg.MaxAssets)
	assert.Equal(t, int64(7), cfg.SyntheticSeed)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "/tmp/cache.db", cfg.SeriesCachePath)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("FETCH_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: 8080, DataDir: "./data", MaxAssets: 4}
	assert.NoError(t, cfg.Validate())

	cfg.Port = -1
	assert.Error(t, cfg.Validate())

	cfg.Port = 8080
	cfg.MaxAssets = 0
	assert.Error(t, cfg.Validate())

	cfg.MaxAssets = 4
	cfg.DataDir = ""
	assert.Error(t, cfg.Validate())
}
