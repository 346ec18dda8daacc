package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/internal/modules/universe"
)

type stubAnalyzer struct {
	result *domain.AnalysisResult
	err    error
}

func (s *stubAnalyzer) Analyze(context.Context, string) (*domain.AnalysisResult, error) {
	return s.result, s.err
}

type stubUniverse struct {
	snapshot *universe.Snapshot
	err      error
}

func (s *stubUniverse) Snapshot(context.Context) (*universe.Snapshot, error) {
	return s.snapshot, s.err
}

func successResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Assessment: &domain.RegimeAssessment{
			Regime:    domain.RegimeDefensive,
			Sectors:   []string{"Gold", "Utilities"},
			Reasoning: "risk-off narrative",
			Sentiment: 0.21,
			Headlines: []string{"Markets slump on recession fears"},
			Synthetic: false,
		},
		Selection: &domain.PortfolioSelection{
			Symbols:        []string{"GLD", "TLT"},
			Names:          []string{"SPDR Gold Shares", "iShares 20+ Year Treasury"},
			Weights:        []float64{0.6, 0.4},
			ExpectedReturn: 0.07,
		},
		Risk: domain.RiskMetrics{
			RiskProbability: 0.31,
			VaR:             0.018,
			CVaR:            0.024,
			Volatility:      0.12,
			MaxDrawdown:     0.08,
		},
		Economic: domain.EconomicSnapshot{
			CPIYoYChange: 3.2,
			FedRateValue: 5.25,
			GDPGrowth:    2.8,
			Label:        "Stagflation Risk",
			Description:  "High inflation with tight monetary policy.",
		},
		Candidates: []domain.Ticker{
			{Symbol: "GLD", Name: "SPDR Gold Shares", Return1Y: 0.11},
			{Symbol: "TLT", Name: "iShares 20+ Year Treasury", Return1Y: -0.03},
		},
	}
}

func newTestRouter(analyzer Analyzer, universeSource UniverseSource) http.Handler {
	handlers := NewHandlers(analyzer, universeSource, true, zerolog.Nop())
	srv := New(Config{Port: 0}, handlers, zerolog.Nop())
	return srv.Router()
}

func postAnalyze(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalyzeContract(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{result: successResult()}, &stubUniverse{})

	rec := postAnalyze(t, router, `{"text":"recession fears mount"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "success", body["status"])

	analysis := body["analysis"].(map[string]any)
	assert.Equal(t, "defensive", analysis["regime"])
	assert.Equal(t, "risk-off narrative", analysis["reasoning"])
	assert.Equal(t, []any{"Gold", "Utilities"}, analysis["sectors"])
	assert.Equal(t, 0.21, analysis["sentiment"].(map[string]any)["overall"])
	assert.Equal(t, []any{"Markets slump on recession fears"}, analysis["news_headlines"])
	assert.Equal(t, false, analysis["synthetic"])

	result := body["result"].(map[string]any)
	assert.Equal(t, []any{"GLD", "TLT"}, result["selected_tickers"])
	assert.Equal(t, []any{"SPDR Gold Shares", "iShares 20+ Year Treasury"}, result["selected_names"])
	assert.Equal(t, []any{0.6, 0.4}, result["weights"])
	assert.Equal(t, 0.07, result["expected_return"])
	assert.Equal(t, 0.31, result["risk_probability"])

	risk := body["risk"].(map[string]any)
	assert.Equal(t, 0.018, risk["var_classical"])
	assert.Equal(t, 0.024, risk["cvar"])
	assert.Equal(t, 0.12, risk["volatility"])
	assert.Equal(t, 0.08, risk["max_drawdown"])

	candidates := body["candidates"].(map[string]any)
	assert.Equal(t, []any{"GLD", "TLT"}, candidates["tickers"])
	assert.Equal(t, []any{0.11, -0.03}, candidates["returns_1y"])

	economic := body["economic"].(map[string]any)
	assert.Equal(t, 3.2, economic["cpi"].(map[string]any)["yoy_change"])
	assert.Equal(t, 5.25, economic["fed_rate"].(map[string]any)["value"])
	assert.Equal(t, 2.8, economic["gdp"].(map[string]any)["growth"])
	assert.Equal(t, "Stagflation Risk", economic["regime"].(map[string]any)["label"])
	assert.NotEmpty(t, economic["regime"].(map[string]any)["description"])
}

// Empty collections must serialize as [], never null.
func TestHandleAnalyzeEmptySelection(t *testing.T) {
	result := successResult()
	result.Selection = &domain.PortfolioSelection{}
	result.Assessment.Sectors = nil
	result.Assessment.Headlines = nil
	result.Candidates = nil
	router := newTestRouter(&stubAnalyzer{result: result}, &stubUniverse{})

	rec := postAnalyze(t, router, `{"text":"nothing actionable"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	raw := rec.Body.String()
	assert.NotContains(t, raw, "null")
	assert.Contains(t, raw, `"selected_tickers":[]`)
	assert.Contains(t, raw, `"weights":[]`)
	assert.Contains(t, raw, `"tickers":[]`)
}

func TestHandleAnalyzeEmptyInput(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{err: domain.ErrEmptyInput}, &stubUniverse{})

	rec := postAnalyze(t, router, `{"text":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.NotEmpty(t, body.Message)
}

func TestHandleAnalyzeScrapeFailure(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{err: domain.ErrScrapeFailed}, &stubUniverse{})

	rec := postAnalyze(t, router, `{"text":"https://example.com/gone"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Internal failures return a generic message, never error details.
func TestHandleAnalyzeInternalError(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{err: errors.New("cholesky factorization exploded")}, &stubUniverse{})

	rec := postAnalyze(t, router, `{"text":"markets"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "internal error", body.Message)
	assert.NotContains(t, rec.Body.String(), "cholesky")
}

func TestHandleAnalyzeMalformedBody(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{result: successResult()}, &stubUniverse{})

	rec := postAnalyze(t, router, `{"text": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUniverse(t *testing.T) {
	snapshot := &universe.Snapshot{
		Tickers: []domain.Ticker{
			{Symbol: "SPY", Name: "SPDR S&P 500", Sector: "S&P500", Return1Y: 0.14},
		},
		LoadedAt: time.Now(),
	}
	router := newTestRouter(&stubAnalyzer{}, &stubUniverse{snapshot: snapshot})

	req := httptest.NewRequest(http.MethodGet, "/api/universe", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	tickers := body["tickers"].([]any)
	require.Len(t, tickers, 1)
	assert.Equal(t, "SPY", tickers[0].(map[string]any)["symbol"])
}

func TestHandleHealth(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{}, &stubUniverse{snapshot: &universe.Snapshot{}})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["api_configured"])
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{result: successResult()}, &stubUniverse{})

	rec := postAnalyze(t, router, `{"text":"markets"}`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(`{"text":"markets"}`))
	req.Header.Set("X-Request-Id", "caller-supplied")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "caller-supplied", rec.Header().Get("X-Request-Id"))
}
