package sentiment

// Term weights for the lexical scorer. Positive weights pull the score toward
// risk-on (1.0), negative weights toward risk-off (0.0). Phrases are matched
// before single words so "flight to safety" is not double-counted as "safety".
var phraseWeights = map[string]float64{
	"flight to safety": -2.0,
	"safe haven":       -1.5,
	"risk off":         -1.5,
	"risk on":          1.5,
	"soft landing":     1.0,
	"rate cut":         1.0,
	"rate hike":        -1.0,
}

var wordWeights = map[string]float64{
	// Risk-on vocabulary
	"rally":      1.0,
	"boom":       1.0,
	"growth":     1.0,
	"bullish":    1.5,
	"optimism":   1.0,
	"recovery":   1.0,
	"expansion":  1.0,
	"surge":      0.5,
	"breakout":   0.5,
	"stimulus":   0.5,
	"easing":     0.5,
	"innovation": 0.5,
	"ai":         0.5,

	// Risk-off vocabulary
	"war":         -1.5,
	"escalation":  -1.0,
	"recession":   -1.5,
	"inflation":   -1.0,
	"crash":       -1.5,
	"crisis":      -1.5,
	"fear":        -1.0,
	"fears":       -1.0,
	"bearish":     -1.5,
	"selloff":     -1.0,
	"default":     -1.0,
	"tariff":      -0.5,
	"tariffs":     -0.5,
	"layoffs":     -1.0,
	"contraction": -1.0,
	"stagflation": -1.5,
	"panic":       -1.5,
}
