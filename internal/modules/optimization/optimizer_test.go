package optimization

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/advisor/internal/domain"
)

// makeTicker builds a deterministic test ticker with the given daily mean
// return and alternating amplitude (which fixes its volatility).
func makeTicker(symbol string, dailyMu, amplitude float64, points int) domain.Ticker {
	returns := make([]float64, points)
	closes := make([]float64, points+1)
	closes[0] = 100
	for i := range returns {
		r := dailyMu + amplitude
		if i%2 == 1 {
			r = dailyMu - amplitude
		}
		returns[i] = r
		closes[i+1] = closes[i] * (1 + r)
	}
	return domain.Ticker{
		Symbol:  symbol,
		Name:    symbol + " Corp.",
		Sector:  "Technology",
		Closes:  closes,
		Returns: returns,
	}
}

// makeNoisyTicker builds a seeded random-return ticker so covariance
// matrices in multi-asset tests are non-singular.
func makeNoisyTicker(symbol string, dailyMu, dailyVol float64, points int, seed int64) domain.Ticker {
	rng := rand.New(rand.NewSource(seed))
	returns := make([]float64, points)
	closes := make([]float64, points+1)
	closes[0] = 100
	for i := range returns {
		returns[i] = dailyMu + dailyVol*rng.NormFloat64()
		closes[i+1] = closes[i] * (1 + returns[i])
	}
	return domain.Ticker{
		Symbol:  symbol,
		Name:    symbol + " Corp.",
		Sector:  "Technology",
		Closes:  closes,
		Returns: returns,
	}
}

func newTestOptimizer(cfg Config) *Optimizer {
	return NewOptimizer(cfg, zerolog.Nop())
}

func TestOptimizeEmptyCandidates(t *testing.T) {
	o := newTestOptimizer(Config{})

	for _, regime := range []domain.Regime{domain.RegimeAggressive, domain.RegimeDefensive, domain.RegimeNeutral} {
		selection, err := o.Optimize(context.Background(), nil, regime)
		require.NoError(t, err)
		assert.Empty(t, selection.Symbols)
		assert.Empty(t, selection.Weights)
		assert.Equal(t, 0.0, selection.ExpectedReturn)
	}
}

func TestOptimizeSingleCandidate(t *testing.T) {
	o := newTestOptimizer(Config{Seed: 42})
	candidates := []domain.Ticker{makeTicker("AAA", 0.001, 0.01, 18)}

	selection, err := o.Optimize(context.Background(), candidates, domain.RegimeNeutral)
	require.NoError(t, err)

	require.Len(t, selection.Symbols, 1)
	assert.Equal(t, "AAA", selection.Symbols[0])
	assert.InDelta(t, 1.0, selection.Weights[0], 1e-9)
}

func TestOptimizeWeightInvariants(t *testing.T) {
	o := newTestOptimizer(Config{Seed: 42})
	candidates := []domain.Ticker{
		makeNoisyTicker("AAA", 0.0010, 0.010, 120, 1),
		makeNoisyTicker("BBB", 0.0006, 0.008, 120, 2),
		makeNoisyTicker("CCC", 0.0012, 0.015, 120, 3),
		makeNoisyTicker("DDD", 0.0004, 0.005, 120, 4),
		makeNoisyTicker("EEE", 0.0008, 0.012, 120, 5),
	}

	for _, regime := range []domain.Regime{domain.RegimeAggressive, domain.RegimeDefensive, domain.RegimeNeutral} {
		selection, err := o.Optimize(context.Background(), candidates, regime)
		require.NoError(t, err)

		require.NotEmpty(t, selection.Symbols)
		require.Len(t, selection.Weights, len(selection.Symbols))
		require.Len(t, selection.Names, len(selection.Symbols))
		assert.LessOrEqual(t, len(selection.Symbols), 4)

		sum := 0.0
		for _, w := range selection.Weights {
			assert.GreaterOrEqual(t, w, 0.0)
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	}
}

func TestOptimizeDeterministicExact(t *testing.T) {
	o := newTestOptimizer(Config{Seed: 42})
	candidates := []domain.Ticker{
		makeNoisyTicker("AAA", 0.0010, 0.010, 120, 1),
		makeNoisyTicker("BBB", 0.0006, 0.008, 120, 2),
		makeNoisyTicker("CCC", 0.0012, 0.015, 120, 3),
	}

	first, err := o.Optimize(context.Background(), candidates, domain.RegimeNeutral)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		next, err := o.Optimize(context.Background(), candidates, domain.RegimeNeutral)
		require.NoError(t, err)
		assert.Equal(t, first.Symbols, next.Symbols)
		assert.Equal(t, first.Weights, next.Weights)
		assert.Equal(t, first.ExpectedReturn, next.ExpectedReturn)
	}
}

func TestOptimizeDeterministicGreedy(t *testing.T) {
	// EnumerationThreshold 2 forces the greedy strategy.
	o := newTestOptimizer(Config{Seed: 42, EnumerationThreshold: 2})
	candidates := []domain.Ticker{
		makeNoisyTicker("AAA", 0.0010, 0.010, 120, 1),
		makeNoisyTicker("BBB", 0.0006, 0.008, 120, 2),
		makeNoisyTicker("CCC", 0.0012, 0.015, 120, 3),
		makeNoisyTicker("DDD", 0.0004, 0.005, 120, 4),
	}

	first, err := o.Optimize(context.Background(), candidates, domain.RegimeAggressive)
	require.NoError(t, err)
	require.NotEmpty(t, first.Symbols)

	next, err := o.Optimize(context.Background(), candidates, domain.RegimeAggressive)
	require.NoError(t, err)
	assert.Equal(t, first.Symbols, next.Symbols)
	assert.Equal(t, first.Weights, next.Weights)
}

// A defensive regime shifts weight toward the low-volatility asset.
func TestDefensiveTiltsTowardLowVolatility(t *testing.T) {
	o := newTestOptimizer(Config{Seed: 42})
	candidates := []domain.Ticker{
		makeTicker("HHH", 0.0020, 0.020, 18), // high return, high vol
		makeTicker("LLL", 0.0004, 0.005, 18), // low return, low vol
	}

	selection, err := o.Optimize(context.Background(), candidates, domain.RegimeDefensive)
	require.NoError(t, err)
	require.NotEmpty(t, selection.Symbols)

	weightOf := func(symbol string) float64 {
		for i, s := range selection.Symbols {
			if s == symbol {
				return selection.Weights[i]
			}
		}
		return 0
	}
	assert.Greater(t, weightOf("LLL"), weightOf("HHH"))
}

// An expired deadline on the exact solver degrades to the greedy strategy
// instead of failing.
func TestDeadlineFallsBackToGreedy(t *testing.T) {
	o := newTestOptimizer(Config{Seed: 42})

	candidates := make([]domain.Ticker, 8)
	for i := range candidates {
		candidates[i] = makeNoisyTicker(string(rune('A'+i))+"AA", 0.0008, 0.010, 120, int64(i+1))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	selection, err := o.Optimize(ctx, candidates, domain.RegimeNeutral)
	require.NoError(t, err)
	assert.NotEmpty(t, selection.Symbols)
}

func TestTieBreakPolicy(t *testing.T) {
	p := Problem{Symbols: []string{"AAA", "BBB", "CCC"}}

	a := &Solution{Indices: []int{0}, ExpectedReturn: 0.10, Volatility: 0.10}
	b := &Solution{Indices: []int{1}, ExpectedReturn: 0.12, Volatility: 0.20}
	assert.True(t, better(p, b, a), "higher return wins")

	c := &Solution{Indices: []int{1}, ExpectedReturn: 0.10, Volatility: 0.05}
	assert.True(t, better(p, c, a), "equal return, lower volatility wins")

	d := &Solution{Indices: []int{0, 1}, ExpectedReturn: 0.10, Volatility: 0.10}
	assert.True(t, better(p, a, d), "equal return and volatility, lower cardinality wins")

	e := &Solution{Indices: []int{2}, ExpectedReturn: 0.10, Volatility: 0.10}
	assert.True(t, better(p, a, e), "final tie-break is lexicographic symbol order")

	assert.True(t, better(p, a, nil), "anything beats nothing")
}
