package scheduler

import (
	"context"
	"fmt"

	"github.com/aristath/advisor/internal/modules/universe"
)

// UniverseRefresher rebuilds the candidate universe snapshot.
type UniverseRefresher interface {
	Refresh(ctx context.Context) (*universe.Snapshot, error)
}

// UniverseRefreshJob keeps the catalog snapshot fresh so requests never pay
// the full fetch cost themselves.
type UniverseRefreshJob struct {
	universe UniverseRefresher
}

// NewUniverseRefreshJob creates the universe refresh job.
func NewUniverseRefreshJob(universe UniverseRefresher) *UniverseRefreshJob {
	return &UniverseRefreshJob{universe: universe}
}

func (j *UniverseRefreshJob) Name() string { return "universe_refresh" }

func (j *UniverseRefreshJob) Run(ctx context.Context) error {
	if _, err := j.universe.Refresh(ctx); err != nil {
		return fmt.Errorf("refreshing universe: %w", err)
	}
	return nil
}

// SeriesPurger drops expired entries from the series cache.
type SeriesPurger interface {
	Purge() error
}

// CachePurgeJob evicts stale close series from the sqlite cache.
type CachePurgeJob struct {
	cache SeriesPurger
}

// NewCachePurgeJob creates the cache purge job.
func NewCachePurgeJob(cache SeriesPurger) *CachePurgeJob {
	return &CachePurgeJob{cache: cache}
}

func (j *CachePurgeJob) Name() string { return "cache_purge" }

func (j *CachePurgeJob) Run(context.Context) error {
	if err := j.cache.Purge(); err != nil {
		return fmt.Errorf("purging series cache: %w", err)
	}
	return nil
}

// CounterResetter resets a daily API request budget.
type CounterResetter interface {
	ResetDailyCounter()
}

// CounterResetJob resets the Alpha Vantage daily request counter. Scheduled
// at midnight to match the provider's quota window.
type CounterResetJob struct {
	client CounterResetter
}

// NewCounterResetJob creates the counter reset job.
func NewCounterResetJob(client CounterResetter) *CounterResetJob {
	return &CounterResetJob{client: client}
}

func (j *CounterResetJob) Name() string { return "api_counter_reset" }

func (j *CounterResetJob) Run(context.Context) error {
	j.client.ResetDailyCounter()
	return nil
}
