package universe

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// HistoryCache persists fetched close series in sqlite so catalog refreshes
// and repeated requests do not hammer the market data provider. Synthetic
// series are never cached - a later refresh should retry the real fetch.
type HistoryCache struct {
	db  *sql.DB
	ttl time.Duration
	log zerolog.Logger
}

// cachedSeries is the msgpack payload stored per symbol.
type cachedSeries struct {
	Closes []float64 `msgpack:"closes"`
}

// NewHistoryCache creates the cache and its schema.
func NewHistoryCache(db *sql.DB, ttl time.Duration, log zerolog.Logger) (*HistoryCache, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	schema := `
	CREATE TABLE IF NOT EXISTS series_cache (
		symbol     TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create series_cache table: %w", err)
	}

	return &HistoryCache{
		db:  db,
		ttl: ttl,
		log: log.With().Str("component", "history_cache").Logger(),
	}, nil
}

// Get returns the cached close series for the symbol, or ok=false when the
// entry is missing or stale.
func (c *HistoryCache) Get(symbol string) ([]float64, bool) {
	var payload []byte
	var fetchedAt int64

	row := c.db.QueryRow(`SELECT payload, fetched_at FROM series_cache WHERE symbol = ?`, symbol)
	if err := row.Scan(&payload, &fetchedAt); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Cache read failed")
		}
		return nil, false
	}

	if time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		return nil, false
	}

	var series cachedSeries
	if err := msgpack.Unmarshal(payload, &series); err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Cache payload corrupt, ignoring entry")
		return nil, false
	}
	return series.Closes, true
}

// Put stores the close series for the symbol, replacing any previous entry.
func (c *HistoryCache) Put(symbol string, closes []float64) error {
	payload, err := msgpack.Marshal(cachedSeries{Closes: closes})
	if err != nil {
		return fmt.Errorf("failed to encode series for %s: %w", symbol, err)
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO series_cache (symbol, payload, fetched_at) VALUES (?, ?, ?)`,
		symbol, payload, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store series for %s: %w", symbol, err)
	}
	return nil
}

// Purge removes entries older than the TTL. Run by the scheduler.
func (c *HistoryCache) Purge() error {
	cutoff := time.Now().Add(-c.ttl).Unix()
	res, err := c.db.Exec(`DELETE FROM series_cache WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge series cache: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		c.log.Debug().Int64("removed", n).Msg("Purged stale cache entries")
	}
	return nil
}
