package optimization

import (
	"context"

	"github.com/aristath/advisor/internal/domain"
)

// ExactSolver enumerates every subset up to the size cap and keeps the best
// feasible one. Tractable only for small candidate counts; the optimizer
// routes larger universes to the greedy solver.
type ExactSolver struct{}

// NewExactSolver creates an exact enumeration solver.
func NewExactSolver() *ExactSolver {
	return &ExactSolver{}
}

// Name identifies the strategy in logs.
func (s *ExactSolver) Name() string { return "exact" }

// Solve enumerates subsets of size 1..MaxAssets in deterministic index
// order. The request deadline is checked periodically; an expired context
// aborts with domain.ErrOptimizationTimeout so the caller can switch
// strategies. When no subset respects the volatility ceiling, the lowest-
// volatility subset wins - data unavailability must degrade, not fail.
func (s *ExactSolver) Solve(ctx context.Context, p Problem) (*Solution, error) {
	n := len(p.Symbols)
	if n == 0 {
		return &Solution{}, nil
	}

	maxAssets := p.MaxAssets
	if maxAssets <= 0 || maxAssets > n {
		maxAssets = n
	}

	var bestFeasible, bestOverall *Solution
	evaluated := 0

	subset := make([]int, 0, maxAssets)
	var enumerate func(start int) error
	enumerate = func(start int) error {
		if len(subset) > 0 {
			evaluated++
			if evaluated%64 == 0 {
				select {
				case <-ctx.Done():
					return domain.ErrOptimizationTimeout
				default:
				}
			}

			if sol := evaluateSubset(p, subset); sol != nil {
				if sol.Volatility <= p.MaxVolatility && better(p, sol, bestFeasible) {
					bestFeasible = sol
				}
				if bestOverall == nil || sol.Volatility < bestOverall.Volatility {
					bestOverall = sol
				}
			}
		}

		if len(subset) == maxAssets {
			return nil
		}
		for i := start; i < n; i++ {
			subset = append(subset, i)
			if err := enumerate(i + 1); err != nil {
				return err
			}
			subset = subset[:len(subset)-1]
		}
		return nil
	}

	if err := enumerate(0); err != nil {
		return nil, err
	}

	if bestFeasible != nil {
		return bestFeasible, nil
	}
	if bestOverall != nil {
		return bestOverall, nil
	}
	return &Solution{}, nil
}

// evaluateSubset solves one subset's weights and packages the solution.
func evaluateSubset(p Problem, subset []int) *Solution {
	weights, ret, vol, ok := solveSubsetWeights(p, subset)
	if !ok {
		return nil
	}

	indices := make([]int, len(subset))
	copy(indices, subset)

	return &Solution{
		Indices:        indices,
		Weights:        weights,
		ExpectedReturn: ret,
		Volatility:     vol,
	}
}
