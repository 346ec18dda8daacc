// Package economic derives a macro-economic regime label from inflation,
// policy rate and growth indicators.
package economic

// Indicator interpretation thresholds, in percent.
const (
	cpiHighThreshold = 3.0
	cpiLowThreshold  = 1.0

	rateTightThreshold = 4.0
	rateLooseThreshold = 2.0
)

// Economic regime labels.
const (
	LabelStagflationRisk = "Stagflation Risk"
	LabelRecessionRisk   = "Recession Risk"
	LabelGrowthFavorable = "Growth Favorable"
	LabelBalanced        = "Balanced"
)

var regimeDescriptions = map[string]string{
	LabelStagflationRisk: "High inflation with tight monetary policy. A defensive allocation is recommended.",
	LabelRecessionRisk:   "Elevated recession risk. Safe-haven assets such as bonds and gold are recommended.",
	LabelGrowthFavorable: "Low inflation with loose monetary policy. Growth assets are favored.",
	LabelBalanced:        "Balanced economic conditions. A diversified allocation is recommended.",
}

// Resolve maps the indicator triple to a regime label and description.
// Pure and deterministic: stagflation (high CPI, tight policy) takes
// precedence, then contraction, then the growth-favorable combination;
// everything else is balanced.
func Resolve(cpiYoY, fedRate, gdpGrowth float64) (label, description string) {
	inflationHigh := cpiYoY > cpiHighThreshold
	inflationLow := cpiYoY < cpiLowThreshold
	policyTight := fedRate > rateTightThreshold
	policyLoose := fedRate < rateLooseThreshold
	contracting := gdpGrowth <= 0

	switch {
	case inflationHigh && policyTight:
		label = LabelStagflationRisk
	case contracting:
		label = LabelRecessionRisk
	case inflationLow && policyLoose:
		label = LabelGrowthFavorable
	default:
		label = LabelBalanced
	}
	return label, regimeDescriptions[label]
}
