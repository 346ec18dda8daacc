package optimization

import (
	"context"
	"math"
	"math/rand"
)

// GreedySolver builds the portfolio incrementally and then refines it with a
// seeded randomized local search. Used when the candidate count makes exact
// enumeration impractical, or as the fallback when the exact solver runs out
// of deadline budget.
type GreedySolver struct {
	seed       int64
	swapRounds int
}

// NewGreedySolver creates a greedy solver. The seed fixes the local-search
// trajectory so results are reproducible.
func NewGreedySolver(seed int64) *GreedySolver {
	return &GreedySolver{
		seed:       seed,
		swapRounds: 200,
	}
}

// Name identifies the strategy in logs.
func (s *GreedySolver) Name() string { return "greedy" }

// Solve grows the subset one asset at a time, keeping each addition only
// when it improves the penalized objective, then tries seeded random swaps
// between members and non-members. The solver never fails: a portfolio over
// the volatility ceiling is penalized rather than rejected, so the search
// degrades toward the lowest-risk subset when nothing is feasible.
func (s *GreedySolver) Solve(_ context.Context, p Problem) (*Solution, error) {
	n := len(p.Symbols)
	if n == 0 {
		return &Solution{}, nil
	}

	maxAssets := p.MaxAssets
	if maxAssets <= 0 || maxAssets > n {
		maxAssets = n
	}

	// Seed the search from the best single asset.
	var best *Solution
	for i := 0; i < n; i++ {
		if sol := evaluateSubset(p, []int{i}); sol != nil {
			if best == nil || s.objective(p, sol) > s.objective(p, best) {
				best = sol
			}
		}
	}
	if best == nil {
		return &Solution{}, nil
	}

	// Greedy growth: keep the single best addition per round.
	for len(best.Indices) < maxAssets {
		var bestNext *Solution
		for i := 0; i < n; i++ {
			if containsIndex(best.Indices, i) {
				continue
			}
			grown := append([]int{}, best.Indices...)
			grown = append(grown, i)
			sortInts(grown)

			candidate := evaluateSubset(p, grown)
			if candidate == nil {
				continue
			}
			if bestNext == nil || s.objective(p, candidate) > s.objective(p, bestNext) {
				bestNext = candidate
			}
		}
		if bestNext == nil || s.objective(p, bestNext) <= s.objective(p, best) {
			break
		}
		best = bestNext
	}

	// Seeded local search: swap one member for one outsider when it helps.
	rng := rand.New(rand.NewSource(s.seed))
	for round := 0; round < s.swapRounds; round++ {
		if len(best.Indices) == n {
			break
		}
		memberPos := rng.Intn(len(best.Indices))
		outsider := rng.Intn(n)
		if containsIndex(best.Indices, outsider) {
			continue
		}

		swapped := append([]int{}, best.Indices...)
		swapped[memberPos] = outsider
		sortInts(swapped)

		if candidate := evaluateSubset(p, swapped); candidate != nil {
			if s.objective(p, candidate) > s.objective(p, best) {
				best = candidate
			}
		}
	}

	return best, nil
}

// objective is the penalized score: expected return minus a steep penalty
// for exceeding the regime's volatility ceiling.
func (s *GreedySolver) objective(p Problem, sol *Solution) float64 {
	excess := math.Max(0, sol.Volatility-p.MaxVolatility)
	return sol.ExpectedReturn - 10*excess
}

func containsIndex(indices []int, target int) bool {
	for _, i := range indices {
		if i == target {
			return true
		}
	}
	return false
}

func sortInts(v []int) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}
