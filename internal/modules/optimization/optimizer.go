package optimization

import (
	"context"
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/pkg/formulas"
)

// Annualization and momentum-tilt constants.
const (
	tradingDaysPerYear = 252

	// Momentum tilt: the 20-day rate of change nudges the expected return
	// the same way Sentinel's returns calculator applies regime
	// adjustments - a tilt, never the dominant term.
	momentumPeriod = 20
	momentumWeight = 0.25
)

// Regime volatility ceilings (annualized). The posture decides how much
// aggregate risk the optimizer may take.
var regimeVolatilityCeilings = map[domain.Regime]float64{
	domain.RegimeDefensive:  0.18,
	domain.RegimeNeutral:    0.25,
	domain.RegimeAggressive: 0.40,
}

// Config holds optimizer configuration
type Config struct {
	MaxAssets            int   // subset size cap (default 4)
	EnumerationThreshold int   // candidate count above which greedy is used
	Seed                 int64 // seed for the greedy local search
}

// Optimizer selects and weights a portfolio subset. The selection strategy
// lives behind the Solver interface: exact enumeration for small candidate
// counts, seeded greedy search for large ones or when the exact solver runs
// out of deadline.
type Optimizer struct {
	exact  Solver
	greedy Solver
	cfg    Config
	log    zerolog.Logger
}

// NewOptimizer creates an optimizer with both solver strategies wired.
func NewOptimizer(cfg Config, log zerolog.Logger) *Optimizer {
	if cfg.MaxAssets <= 0 {
		cfg.MaxAssets = 4
	}
	if cfg.EnumerationThreshold <= 0 {
		cfg.EnumerationThreshold = 14
	}

	return &Optimizer{
		exact:  NewExactSolver(),
		greedy: NewGreedySolver(cfg.Seed),
		cfg:    cfg,
		log:    log.With().Str("component", "optimizer").Logger(),
	}
}

// Optimize chooses a subset of at most MaxAssets candidates and weights it
// to maximize regime-consistent expected return under the regime's
// volatility ceiling. An empty candidate list yields an empty selection, not
// an error.
func (o *Optimizer) Optimize(ctx context.Context, candidates []domain.Ticker, regime domain.Regime) (*domain.PortfolioSelection, error) {
	if len(candidates) == 0 {
		return &domain.PortfolioSelection{
			Symbols: []string{},
			Names:   []string{},
			Weights: []float64{},
		}, nil
	}

	problem := o.buildProblem(candidates, regime)

	solver := o.exact
	if len(candidates) > o.cfg.EnumerationThreshold {
		solver = o.greedy
	}

	solution, err := solver.Solve(ctx, problem)
	if errors.Is(err, domain.ErrOptimizationTimeout) {
		// Deadline pressure: degrade to the approximate strategy rather
		// than blocking or failing the request.
		o.log.Warn().
			Str("solver", solver.Name()).
			Int("candidates", len(candidates)).
			Msg("Exact solver hit the deadline, switching to greedy")
		solver = o.greedy
		solution, err = solver.Solve(ctx, problem)
	}
	if err != nil {
		return nil, fmt.Errorf("portfolio solve failed: %w", err)
	}

	o.log.Debug().
		Str("solver", solver.Name()).
		Str("regime", string(regime)).
		Int("candidates", len(candidates)).
		Int("selected", len(solution.Indices)).
		Float64("expected_return", solution.ExpectedReturn).
		Float64("volatility", solution.Volatility).
		Msg("Portfolio optimized")

	return toSelection(candidates, solution), nil
}

// buildProblem computes annualized expected returns (with the momentum
// tilt) and the annualized covariance matrix over aligned return series.
func (o *Optimizer) buildProblem(candidates []domain.Ticker, regime domain.Regime) Problem {
	n := len(candidates)

	// Align all return series to the shortest one so the covariance is
	// well-defined.
	minLen := len(candidates[0].Returns)
	for _, c := range candidates[1:] {
		if len(c.Returns) < minLen {
			minLen = len(c.Returns)
		}
	}

	symbols := make([]string, n)
	mu := make([]float64, n)
	aligned := make([][]float64, n)
	for i, c := range candidates {
		symbols[i] = c.Symbol
		series := c.Returns
		if len(series) > minLen {
			series = series[len(series)-minLen:]
		}
		aligned[i] = series
		mu[i] = formulas.Mean(series)*tradingDaysPerYear + momentumTilt(c.Closes)
	}

	cov := formulas.CovarianceMatrix(aligned)
	for i := range cov {
		for j := range cov[i] {
			cov[i][j] *= tradingDaysPerYear
		}
	}

	return Problem{
		Symbols:       symbols,
		Mu:            mu,
		Cov:           cov,
		MaxAssets:     o.cfg.MaxAssets,
		MaxVolatility: regimeVolatilityCeilings[regime],
	}
}

// momentumTilt derives a small expected-return adjustment from the 20-day
// rate of change of the close series.
func momentumTilt(closes []float64) float64 {
	if len(closes) <= momentumPeriod {
		return 0
	}
	roc := talib.Roc(closes, momentumPeriod)
	if len(roc) == 0 {
		return 0
	}
	// ROC is in percent; convert to a fraction before tilting.
	return momentumWeight * roc[len(roc)-1] / 100
}

// toSelection maps a solver solution back onto the candidate tickers.
func toSelection(candidates []domain.Ticker, sol *Solution) *domain.PortfolioSelection {
	k := len(sol.Indices)
	selection := &domain.PortfolioSelection{
		Symbols:        make([]string, k),
		Names:          make([]string, k),
		Weights:        make([]float64, k),
		ExpectedReturn: sol.ExpectedReturn,
	}
	for a, i := range sol.Indices {
		selection.Symbols[a] = candidates[i].Symbol
		selection.Names[a] = candidates[i].Name
		selection.Weights[a] = sol.Weights[a]
	}
	return selection
}
