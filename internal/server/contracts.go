package server

import "github.com/aristath/advisor/internal/domain"

// Wire contract for POST /api/analyze. Field names and nesting are frozen;
// presentation layers depend on them exactly as written.

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Status     string            `json:"status"`
	Analysis   analysisPayload   `json:"analysis"`
	Result     resultPayload     `json:"result"`
	Risk       riskPayload       `json:"risk"`
	Candidates candidatesPayload `json:"candidates"`
	Economic   economicPayload   `json:"economic"`
}

type analysisPayload struct {
	Regime        string           `json:"regime"`
	Reasoning     string           `json:"reasoning"`
	Sectors       []string         `json:"sectors"`
	Sentiment     sentimentPayload `json:"sentiment"`
	NewsHeadlines []string         `json:"news_headlines"`
	Synthetic     bool             `json:"synthetic"`
}

type sentimentPayload struct {
	Overall float64 `json:"overall"`
}

type resultPayload struct {
	SelectedTickers []string  `json:"selected_tickers"`
	SelectedNames   []string  `json:"selected_names"`
	Weights         []float64 `json:"weights"`
	ExpectedReturn  float64   `json:"expected_return"`
	RiskProbability float64   `json:"risk_probability"`
}

type riskPayload struct {
	VaRClassical float64 `json:"var_classical"`
	CVaR         float64 `json:"cvar"`
	Volatility   float64 `json:"volatility"`
	MaxDrawdown  float64 `json:"max_drawdown"`
}

type candidatesPayload struct {
	Tickers   []string  `json:"tickers"`
	Names     []string  `json:"names"`
	Returns1Y []float64 `json:"returns_1y"`
}

type economicPayload struct {
	CPI     cpiPayload     `json:"cpi"`
	FedRate fedRatePayload `json:"fed_rate"`
	GDP     gdpPayload     `json:"gdp"`
	Regime  regimePayload  `json:"regime"`
}

type cpiPayload struct {
	YoYChange float64 `json:"yoy_change"`
}

type fedRatePayload struct {
	Value float64 `json:"value"`
}

type gdpPayload struct {
	Growth float64 `json:"growth"`
}

type regimePayload struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// toAnalyzeResponse maps the domain result onto the wire contract. Slices are
// always non-nil so empty collections serialize as [] rather than null.
func toAnalyzeResponse(result *domain.AnalysisResult) analyzeResponse {
	candidates := candidatesPayload{
		Tickers:   make([]string, len(result.Candidates)),
		Names:     make([]string, len(result.Candidates)),
		Returns1Y: make([]float64, len(result.Candidates)),
	}
	for i, t := range result.Candidates {
		candidates.Tickers[i] = t.Symbol
		candidates.Names[i] = t.Name
		candidates.Returns1Y[i] = t.Return1Y
	}

	return analyzeResponse{
		Status: "success",
		Analysis: analysisPayload{
			Regime:        string(result.Assessment.Regime),
			Reasoning:     result.Assessment.Reasoning,
			Sectors:       orEmpty(result.Assessment.Sectors),
			Sentiment:     sentimentPayload{Overall: result.Assessment.Sentiment},
			NewsHeadlines: orEmpty(result.Assessment.Headlines),
			Synthetic:     result.Assessment.Synthetic,
		},
		Result: resultPayload{
			SelectedTickers: orEmpty(result.Selection.Symbols),
			SelectedNames:   orEmpty(result.Selection.Names),
			Weights:         orEmpty(result.Selection.Weights),
			ExpectedReturn:  result.Selection.ExpectedReturn,
			RiskProbability: result.Risk.RiskProbability,
		},
		Risk: riskPayload{
			VaRClassical: result.Risk.VaR,
			CVaR:         result.Risk.CVaR,
			Volatility:   result.Risk.Volatility,
			MaxDrawdown:  result.Risk.MaxDrawdown,
		},
		Candidates: candidates,
		Economic: economicPayload{
			CPI:     cpiPayload{YoYChange: result.Economic.CPIYoYChange},
			FedRate: fedRatePayload{Value: result.Economic.FedRateValue},
			GDP:     gdpPayload{Growth: result.Economic.GDPGrowth},
			Regime: regimePayload{
				Label:       result.Economic.Label,
				Description: result.Economic.Description,
			},
		},
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
