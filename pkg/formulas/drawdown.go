package formulas

// CalculateMaxDrawdown calculates the maximum peak-to-trough decline over a
// path of cumulative values.
//
//	Drawdown = (Peak - Current) / Peak
//
// Returns the largest drawdown as a positive fraction (0.25 = 25% loss from
// peak), or 0 when the path is too short.
func CalculateMaxDrawdown(path []float64) float64 {
	if len(path) < 2 {
		return 0
	}

	maxDrawdown := 0.0
	peak := path[0]

	for _, v := range path {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}

// CumulativePath compounds a return series into a cumulative value path
// starting at 1.0. Used to derive drawdown from simulated returns.
func CumulativePath(returns []float64) []float64 {
	path := make([]float64, len(returns)+1)
	path[0] = 1.0
	for i, r := range returns {
		path[i+1] = path[i] * (1 + r)
		if path[i+1] < 0 {
			path[i+1] = 0
		}
	}
	return path
}
