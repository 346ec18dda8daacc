package formulas

import (
	"math"
	"sort"
)

// CalculateVaR calculates Value at Risk at the given confidence level as a
// positive loss magnitude. For 95% confidence this is the negated 5th
// percentile of the return distribution, floored at zero.
func CalculateVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	tailProbability := 1.0 - confidence
	idx := int(math.Floor(float64(len(sorted)) * tailProbability))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	v := -sorted[idx]
	if v < 0 {
		return 0
	}
	return v
}

// CalculateCVaR calculates Conditional Value at Risk (expected shortfall) at
// the given confidence level, as a positive loss magnitude. CVaR averages the
// tail beyond the VaR threshold, so CVaR >= VaR by construction.
func CalculateCVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	tailProbability := 1.0 - confidence
	tailCount := int(math.Ceil(float64(len(sorted)) * tailProbability))
	if tailCount == 0 {
		tailCount = 1
	}
	if tailCount > len(sorted) {
		tailCount = len(sorted)
	}

	sum := 0.0
	for _, r := range sorted[:tailCount] {
		sum += r
	}

	cvar := -sum / float64(tailCount)
	if cvar < 0 {
		return 0
	}
	return cvar
}

// LossProbability is the empirical probability of a negative return.
func LossProbability(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	losses := 0
	for _, r := range returns {
		if r < 0 {
			losses++
		}
	}
	return float64(losses) / float64(len(returns))
}
