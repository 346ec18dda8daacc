package economic

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/clients/alphavantage"
	"github.com/aristath/advisor/internal/domain"
)

// IndicatorProvider is the macro data capability the service depends on.
// The Alpha Vantage client satisfies it; getters fall back to pinned values
// instead of failing.
type IndicatorProvider interface {
	GetCPIYoY(ctx context.Context) alphavantage.Indicator
	GetFederalFundsRate(ctx context.Context) alphavantage.Indicator
	GetGDPGrowth(ctx context.Context) alphavantage.Indicator
}

// Service fetches the macro indicators and resolves the economic regime.
type Service struct {
	provider IndicatorProvider
	log      zerolog.Logger
}

// NewService creates an economic context service.
func NewService(provider IndicatorProvider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With().Str("component", "economic").Logger(),
	}
}

// Snapshot fetches CPI, the federal funds rate and GDP growth concurrently
// and derives the regime label. Never fails: the provider substitutes pinned
// fallbacks when the upstream is unavailable.
func (s *Service) Snapshot(ctx context.Context) *domain.EconomicSnapshot {
	var (
		wg            sync.WaitGroup
		cpi, fed, gdp alphavantage.Indicator
	)

	wg.Add(3)
	go func() { defer wg.Done(); cpi = s.provider.GetCPIYoY(ctx) }()
	go func() { defer wg.Done(); fed = s.provider.GetFederalFundsRate(ctx) }()
	go func() { defer wg.Done(); gdp = s.provider.GetGDPGrowth(ctx) }()
	wg.Wait()

	label, description := Resolve(cpi.Value, fed.Value, gdp.Value)

	s.log.Debug().
		Float64("cpi_yoy", cpi.Value).
		Float64("fed_rate", fed.Value).
		Float64("gdp_growth", gdp.Value).
		Bool("fallback", cpi.Fallback || fed.Fallback || gdp.Fallback).
		Str("regime", label).
		Msg("Economic context resolved")

	return &domain.EconomicSnapshot{
		CPIYoYChange: cpi.Value,
		FedRateValue: fed.Value,
		GDPGrowth:    gdp.Value,
		Label:        label,
		Description:  description,
	}
}
