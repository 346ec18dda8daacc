// Package risk derives forward-looking risk metrics for a weighted portfolio
// selection via seeded Monte Carlo simulation.
package risk

import (
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/pkg/formulas"
)

const tradingDaysPerYear = 252

// Config holds risk analyzer configuration
type Config struct {
	Simulations int     // Monte Carlo draws (default 10000)
	Confidence  float64 // VaR/CVaR confidence level (default 0.95)
	Seed        uint64  // simulation seed
}

// Analyzer computes VaR, CVaR, volatility, loss probability and max drawdown
// for a portfolio selection. The simulation source is explicitly seeded, so
// identical inputs always produce identical metrics.
type Analyzer struct {
	cfg Config
	log zerolog.Logger
}

// NewAnalyzer creates a risk analyzer, filling config defaults.
func NewAnalyzer(cfg Config, log zerolog.Logger) *Analyzer {
	if cfg.Simulations <= 0 {
		cfg.Simulations = 10000
	}
	if cfg.Confidence <= 0 || cfg.Confidence >= 1 {
		cfg.Confidence = 0.95
	}

	return &Analyzer{
		cfg: cfg,
		log: log.With().Str("component", "risk").Logger(),
	}
}

// Analyze estimates the portfolio's daily return distribution from the
// weighted member series, then simulates draws from a normal fit to compute
// the tail metrics. An empty selection, or one with no usable series, yields
// all-zero metrics rather than an error.
func (a *Analyzer) Analyze(selection *domain.PortfolioSelection, seriesBySymbol map[string][]float64) *domain.RiskMetrics {
	if selection == nil || len(selection.Symbols) == 0 {
		return &domain.RiskMetrics{}
	}

	portfolio := a.portfolioReturns(selection, seriesBySymbol)
	if len(portfolio) < 2 {
		a.log.Warn().
			Strs("symbols", selection.Symbols).
			Msg("No usable return series for risk analysis")
		return &domain.RiskMetrics{}
	}

	mu := formulas.Mean(portfolio)
	sigma := formulas.StdDev(portfolio)

	draws := a.simulate(mu, sigma)

	// Loss magnitudes are fractions of the portfolio: every probability-like
	// metric is clamped to [0,1], even when extreme draws land below -100%.
	metrics := &domain.RiskMetrics{
		RiskProbability: formulas.Clamp01(formulas.LossProbability(draws)),
		VaR:             formulas.Clamp01(formulas.CalculateVaR(draws, a.cfg.Confidence)),
		CVaR:            formulas.Clamp01(formulas.CalculateCVaR(draws, a.cfg.Confidence)),
		Volatility:      sigma * math.Sqrt(tradingDaysPerYear),
		MaxDrawdown:     formulas.CalculateMaxDrawdown(formulas.CumulativePath(draws)),
	}
	if metrics.CVaR < metrics.VaR {
		metrics.CVaR = metrics.VaR
	}

	a.log.Debug().
		Int("simulations", a.cfg.Simulations).
		Float64("var", metrics.VaR).
		Float64("cvar", metrics.CVaR).
		Float64("volatility", metrics.Volatility).
		Msg("Risk metrics computed")

	return metrics
}

// portfolioReturns combines the member return series into one weighted series,
// aligned to the shortest member. Symbols without a usable series are dropped
// and the remaining weights renormalized, so one bad series degrades the
// estimate instead of zeroing it.
func (a *Analyzer) portfolioReturns(selection *domain.PortfolioSelection, seriesBySymbol map[string][]float64) []float64 {
	var (
		series  [][]float64
		weights []float64
		total   float64
	)
	for i, symbol := range selection.Symbols {
		s := seriesBySymbol[symbol]
		if len(s) < 2 {
			continue
		}
		series = append(series, s)
		weights = append(weights, selection.Weights[i])
		total += selection.Weights[i]
	}
	if len(series) == 0 || total <= 0 {
		return nil
	}

	minLen := len(series[0])
	for _, s := range series[1:] {
		if len(s) < minLen {
			minLen = len(s)
		}
	}

	portfolio := make([]float64, minLen)
	for j, s := range series {
		w := weights[j] / total
		tail := s[len(s)-minLen:]
		for t, r := range tail {
			portfolio[t] += w * r
		}
	}
	return portfolio
}

// simulate draws daily portfolio returns from a normal distribution fitted to
// the historical series, using an explicitly seeded source.
func (a *Analyzer) simulate(mu, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 1e-8
	}

	dist := distuv.Normal{
		Mu:    mu,
		Sigma: sigma,
		Src:   rand.NewSource(a.cfg.Seed),
	}

	draws := make([]float64, a.cfg.Simulations)
	for i := range draws {
		draws[i] = dist.Rand()
	}
	return draws
}
