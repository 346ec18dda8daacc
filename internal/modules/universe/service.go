package universe

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/pkg/formulas"
)

// SeriesProvider fetches a daily close series for one symbol. The market
// data client implements this; tests substitute stubs.
type SeriesProvider interface {
	FetchDailyCloses(ctx context.Context, symbol string, days int) ([]float64, error)
}

// Snapshot is one immutable view of the loaded universe. Requests hold a
// snapshot reference for their whole lifetime; refreshes build a new snapshot
// and swap the pointer, so readers never observe a partial update.
type Snapshot struct {
	Tickers  []domain.Ticker
	LoadedAt time.Time
}

// Filter returns the tickers whose sector is in the tilt set. A tilt that
// matches nothing falls back to the full universe - the candidate list is
// never empty unless the universe itself is.
func (s *Snapshot) Filter(sectors []string) []domain.Ticker {
	if len(sectors) == 0 {
		return s.Tickers
	}

	tilt := make(map[string]bool, len(sectors))
	for _, sector := range sectors {
		tilt[strings.ToLower(sector)] = true
	}

	var matched []domain.Ticker
	for _, t := range s.Tickers {
		if tilt[strings.ToLower(t.Sector)] {
			matched = append(matched, t)
		}
	}

	if len(matched) == 0 {
		return s.Tickers
	}
	return matched
}

// Config holds universe service configuration
type Config struct {
	Catalog       []CatalogEntry
	SeriesDays    int           // length of the close series to load
	Concurrency   int           // bounded fetch parallelism
	FetchTimeout  time.Duration // per-symbol fetch deadline
	SyntheticSeed int64
}

// Service loads and serves candidate universe snapshots. Loading fetches
// series concurrently with per-symbol failure isolation: an exhausted fetch
// substitutes a seeded synthetic series instead of failing the request.
type Service struct {
	provider SeriesProvider
	cache    *HistoryCache // optional
	cfg      Config
	log      zerolog.Logger

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewService creates a universe service. cache may be nil.
func NewService(provider SeriesProvider, cache *HistoryCache, cfg Config, log zerolog.Logger) *Service {
	if len(cfg.Catalog) == 0 {
		cfg.Catalog = DefaultCatalog
	}
	if cfg.SeriesDays <= 0 {
		cfg.SeriesDays = 252
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}

	return &Service{
		provider: provider,
		cache:    cache,
		cfg:      cfg,
		log:      log.With().Str("component", "universe").Logger(),
	}
}

// Snapshot returns the current universe snapshot, loading it on first use.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	if snap != nil {
		return snap, nil
	}
	return s.Refresh(ctx)
}

// Refresh loads a fresh snapshot and swaps it in atomically. The service is
// the single writer; concurrent requests keep reading the previous snapshot
// until the swap.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	tickers := s.load(ctx)

	snap := &Snapshot{
		Tickers:  tickers,
		LoadedAt: time.Now(),
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	synthetic := 0
	for _, t := range tickers {
		if t.Synthetic {
			synthetic++
		}
	}
	s.log.Info().
		Int("tickers", len(tickers)).
		Int("synthetic", synthetic).
		Msg("Universe snapshot refreshed")

	return snap, nil
}

// load fetches every catalog entry's series with bounded concurrency.
// Failures are isolated per ticker: one symbol's synthetic fallback never
// aborts the others.
func (s *Service) load(ctx context.Context) []domain.Ticker {
	tickers := make([]domain.Ticker, len(s.cfg.Catalog))

	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, entry := range s.cfg.Catalog {
		wg.Add(1)
		go func(i int, entry CatalogEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			tickers[i] = s.loadTicker(ctx, entry)
		}(i, entry)
	}

	wg.Wait()
	return tickers
}

// loadTicker resolves one ticker's series: cache first, then provider with a
// per-fetch timeout, then the seeded synthetic fallback.
func (s *Service) loadTicker(ctx context.Context, entry CatalogEntry) domain.Ticker {
	if s.cache != nil {
		if closes, ok := s.cache.Get(entry.Symbol); ok {
			return buildTicker(entry, closes, false)
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	closes, err := s.provider.FetchDailyCloses(fetchCtx, entry.Symbol, s.cfg.SeriesDays)
	if err != nil {
		s.log.Warn().
			Str("symbol", entry.Symbol).
			Err(err).
			Msg("Falling back to synthetic series")
		closes = GenerateSyntheticCloses(entry.Symbol, s.cfg.SyntheticSeed, s.cfg.SeriesDays)
		return buildTicker(entry, closes, true)
	}

	if s.cache != nil {
		if err := s.cache.Put(entry.Symbol, closes); err != nil {
			s.log.Warn().Err(err).Str("symbol", entry.Symbol).Msg("Failed to cache series")
		}
	}
	return buildTicker(entry, closes, false)
}

func buildTicker(entry CatalogEntry, closes []float64, synthetic bool) domain.Ticker {
	returns := formulas.CalculateReturns(closes)

	return1y := 0.0
	if len(closes) >= 2 && closes[0] != 0 {
		return1y = closes[len(closes)-1]/closes[0] - 1
	}

	return domain.Ticker{
		Symbol:    entry.Symbol,
		Name:      entry.Name,
		Sector:    entry.Sector,
		Closes:    closes,
		Returns:   returns,
		Return1Y:  return1y,
		Synthetic: synthetic,
	}
}
