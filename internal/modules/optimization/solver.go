// Package optimization selects and weights a portfolio subset from the
// filtered candidate universe under a regime-dependent risk ceiling.
package optimization

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Problem is one subset-selection instance handed to a solver. Mu and Cov
// are annualized; Symbols is parallel to Mu.
type Problem struct {
	Symbols       []string
	Mu            []float64
	Cov           [][]float64
	MaxAssets     int
	MaxVolatility float64
}

// Solution is a solver's answer: the chosen indices into Problem.Symbols and
// their weights (nonnegative, summing to 1).
type Solution struct {
	Indices        []int
	Weights        []float64
	ExpectedReturn float64
	Volatility     float64
}

// Solver is the portfolio solver capability. Both strategies are
// deterministic given a fixed seed; the exact solver may fail with
// domain.ErrOptimizationTimeout when the request deadline cuts enumeration
// short, in which case the optimizer switches to the approximate solver.
type Solver interface {
	Name() string
	Solve(ctx context.Context, p Problem) (*Solution, error)
}

// solveSubsetWeights assigns weights to one candidate subset and returns the
// resulting expected return and volatility.
//
// The weights come from the unconstrained mean-variance solution w ∝ Σ⁻¹μ
// (solved via Cholesky), with negative weights clamped to zero and the rest
// renormalized. When the subset covariance is not positive definite, or the
// mean-variance weights degenerate, inverse-variance weights are used
// instead.
func solveSubsetWeights(p Problem, subset []int) (weights []float64, ret, vol float64, ok bool) {
	k := len(subset)
	if k == 0 {
		return nil, 0, 0, false
	}

	subMu := make([]float64, k)
	subCov := mat.NewSymDense(k, nil)
	for a, i := range subset {
		subMu[a] = p.Mu[i]
		for b, j := range subset {
			if b >= a {
				subCov.SetSym(a, b, p.Cov[i][j])
			}
		}
	}

	weights = meanVarianceWeights(subMu, subCov)
	if weights == nil {
		weights = inverseVarianceWeights(subCov)
	}
	if weights == nil {
		return nil, 0, 0, false
	}

	ret = 0.0
	for a := range weights {
		ret += weights[a] * subMu[a]
	}

	variance := 0.0
	for a := range weights {
		for b := range weights {
			variance += weights[a] * weights[b] * subCov.At(a, b)
		}
	}
	if variance < 0 {
		variance = 0
	}
	vol = math.Sqrt(variance)

	return weights, ret, vol, true
}

// meanVarianceWeights solves Σw = μ and projects onto the long-only simplex.
// Returns nil when the system cannot be solved or the projection collapses.
func meanVarianceWeights(mu []float64, cov *mat.SymDense) []float64 {
	k := len(mu)

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return nil
	}

	raw := mat.NewVecDense(k, nil)
	if err := chol.SolveVecTo(raw, mat.NewVecDense(k, mu)); err != nil {
		return nil
	}

	weights := make([]float64, k)
	sum := 0.0
	for i := 0; i < k; i++ {
		w := raw.AtVec(i)
		if w < 0 {
			w = 0
		}
		weights[i] = w
		sum += w
	}
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil
	}

	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// inverseVarianceWeights weights each asset by 1/σ², the classic
// diversification fallback when the full covariance is unusable.
func inverseVarianceWeights(cov *mat.SymDense) []float64 {
	k := cov.SymmetricDim()
	weights := make([]float64, k)
	sum := 0.0
	for i := 0; i < k; i++ {
		v := cov.At(i, i)
		if v <= 0 {
			v = 1e-8
		}
		weights[i] = 1 / v
		sum += weights[i]
	}
	if sum <= 0 {
		return nil
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// better reports whether candidate a beats b under the tie-break policy:
// higher expected return, then lower volatility, then lower cardinality,
// then lexicographic symbol order.
func better(p Problem, a, b *Solution) bool {
	if b == nil {
		return true
	}
	const eps = 1e-9

	if math.Abs(a.ExpectedReturn-b.ExpectedReturn) > eps {
		return a.ExpectedReturn > b.ExpectedReturn
	}
	if math.Abs(a.Volatility-b.Volatility) > eps {
		return a.Volatility < b.Volatility
	}
	if len(a.Indices) != len(b.Indices) {
		return len(a.Indices) < len(b.Indices)
	}
	for i := range a.Indices {
		sa, sb := p.Symbols[a.Indices[i]], p.Symbols[b.Indices[i]]
		if sa != sb {
			return sa < sb
		}
	}
	return false
}
