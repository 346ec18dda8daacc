// Package domain contains the core types of the advisor decision engine.
// The domain layer is pure: no HTTP, no storage, no logging dependencies.
package domain

// Regime is the coarse market posture derived from a narrative.
type Regime string

const (
	RegimeAggressive Regime = "aggressive"
	RegimeDefensive  Regime = "defensive"
	RegimeNeutral    Regime = "neutral"
)

// Valid reports whether the regime is one of the three known postures.
func (r Regime) Valid() bool {
	switch r {
	case RegimeAggressive, RegimeDefensive, RegimeNeutral:
		return true
	}
	return false
}

// Ticker is one tradable candidate: identity, sector tag, and a one-year
// daily close series. Instances are immutable for the lifetime of a catalog
// snapshot; a refresh builds new instances rather than mutating in place.
type Ticker struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Sector    string    `json:"sector"`
	Closes    []float64 `json:"closes"`
	Returns   []float64 `json:"returns"`
	Return1Y  float64   `json:"return_1y"`
	Synthetic bool      `json:"synthetic"`
}

// RegimeAssessment is the outcome of classifying one narrative.
type RegimeAssessment struct {
	Regime    Regime   `json:"regime"`
	Sectors   []string `json:"sectors"`
	Reasoning string   `json:"reasoning"`
	Sentiment float64  `json:"sentiment"` // [0,1], 0.5 is neutral
	Headlines []string `json:"headlines"`
	Synthetic bool     `json:"synthetic"` // true when the news feed was unavailable
}

// PortfolioSelection holds the chosen subset and its weights. The three
// slices are parallel; weights are nonnegative and sum to 1 when the
// selection is non-empty.
type PortfolioSelection struct {
	Symbols        []string  `json:"symbols"`
	Names          []string  `json:"names"`
	Weights        []float64 `json:"weights"`
	ExpectedReturn float64   `json:"expected_return"`
}

// Empty reports whether no assets were selected.
func (s *PortfolioSelection) Empty() bool {
	return s == nil || len(s.Symbols) == 0
}

// RiskMetrics holds the distributional risk measures for one portfolio.
// RiskProbability, VaR, CVaR and MaxDrawdown are fractions in [0,1];
// CVaR >= VaR always holds.
type RiskMetrics struct {
	RiskProbability float64 `json:"risk_probability"`
	VaR             float64 `json:"var"`
	CVaR            float64 `json:"cvar"`
	Volatility      float64 `json:"volatility"`
	MaxDrawdown     float64 `json:"max_drawdown"`
}

// EconomicSnapshot pairs the raw macro indicators with the derived regime
// label. The label and description are a pure function of the three scalars.
type EconomicSnapshot struct {
	CPIYoYChange float64 `json:"cpi_yoy_change"`
	FedRateValue float64 `json:"fed_rate_value"`
	GDPGrowth    float64 `json:"gdp_growth"`
	Label        string  `json:"label"`
	Description  string  `json:"description"`
}

// AnalysisResult aggregates the outcome of one analysis request.
type AnalysisResult struct {
	Assessment *RegimeAssessment   `json:"assessment"`
	Selection  *PortfolioSelection `json:"selection"`
	Risk       RiskMetrics         `json:"risk"`
	Economic   EconomicSnapshot    `json:"economic"`
	Candidates []Ticker            `json:"candidates"`
}
