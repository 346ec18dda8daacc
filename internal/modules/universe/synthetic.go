package universe

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// Synthetic series calibration. Drift and volatility are drawn per symbol
// within plausible annual market ranges, then applied as a daily geometric
// random walk.
const (
	syntheticStartPrice = 100.0
	syntheticMinDrift   = 0.05 // 5% annual
	syntheticMaxDrift   = 0.15 // 15% annual
	syntheticMinVol     = 0.15 // 15% annual
	syntheticMaxVol     = 0.30 // 30% annual
	tradingDaysPerYear  = 252
)

// GenerateSyntheticCloses produces a seeded geometric random-walk close
// series for the symbol. The same (symbol, seed, days) triple always yields
// the same series, so repeated requests and tests are reproducible.
func GenerateSyntheticCloses(symbol string, seed int64, days int) []float64 {
	if days < 2 {
		days = 2
	}

	rng := rand.New(rand.NewSource(seed ^ int64(symbolHash(symbol))))

	annualDrift := syntheticMinDrift + rng.Float64()*(syntheticMaxDrift-syntheticMinDrift)
	annualVol := syntheticMinVol + rng.Float64()*(syntheticMaxVol-syntheticMinVol)

	dailyDrift := annualDrift / tradingDaysPerYear
	dailyVol := annualVol / math.Sqrt(tradingDaysPerYear)

	closes := make([]float64, days)
	closes[0] = syntheticStartPrice
	for i := 1; i < days; i++ {
		step := dailyDrift + dailyVol*rng.NormFloat64()
		next := closes[i-1] * (1 + step)
		if next < 1 {
			next = 1 // price floor, keeps returns well-defined
		}
		closes[i] = next
	}
	return closes
}

func symbolHash(symbol string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum32()
}
