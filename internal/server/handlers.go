package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/internal/modules/universe"
)

// Analyzer runs the full analysis pipeline for one narrative.
type Analyzer interface {
	Analyze(ctx context.Context, input string) (*domain.AnalysisResult, error)
}

// UniverseSource serves the current candidate universe snapshot.
type UniverseSource interface {
	Snapshot(ctx context.Context) (*universe.Snapshot, error)
}

// Handlers holds the API endpoint implementations.
type Handlers struct {
	analyzer    Analyzer
	universe    UniverseSource
	apiKeySet   bool
	startupTime time.Time
	log         zerolog.Logger
}

// NewHandlers creates the API handlers.
func NewHandlers(analyzer Analyzer, universeSource UniverseSource, apiKeySet bool, log zerolog.Logger) *Handlers {
	return &Handlers{
		analyzer:    analyzer,
		universe:    universeSource,
		apiKeySet:   apiKeySet,
		startupTime: time.Now(),
		log:         log.With().Str("component", "handlers").Logger(),
	}
}

// HandleAnalyze runs the pipeline for the posted narrative.
// POST /api/analyze
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.Text)
	if err != nil {
		h.handleAnalyzeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAnalyzeResponse(result))
}

// handleAnalyzeError maps pipeline failures onto the wire contract. Input
// problems surface their message; anything else is a generic 500 so internal
// details never leak.
func (h *Handlers) handleAnalyzeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		h.writeError(w, http.StatusBadRequest, "input text is empty")
	case errors.Is(err, domain.ErrScrapeFailed):
		h.writeError(w, http.StatusBadRequest, "could not extract text from url")
	default:
		h.log.Error().Err(err).Msg("Analysis failed")
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// HandleHealth reports process health and resource usage.
// GET /api/health
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	cpuAvg, ramPercent := h.systemStats()

	tickers := 0
	if snap, err := h.universe.Snapshot(r.Context()); err == nil {
		tickers = len(snap.Tickers)
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.startupTime).Seconds()),
		"cpu_percent":    cpuAvg,
		"ram_percent":    ramPercent,
		"api_configured": h.apiKeySet,
		"universe_size":  tickers,
	})
}

// HandleUniverse lists the current candidate universe.
// GET /api/universe
func (h *Handlers) HandleUniverse(w http.ResponseWriter, r *http.Request) {
	snap, err := h.universe.Snapshot(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Universe snapshot failed")
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	type tickerPayload struct {
		Symbol    string  `json:"symbol"`
		Name      string  `json:"name"`
		Sector    string  `json:"sector"`
		Return1Y  float64 `json:"return_1y"`
		Synthetic bool    `json:"synthetic"`
	}

	tickers := make([]tickerPayload, len(snap.Tickers))
	for i, t := range snap.Tickers {
		tickers[i] = tickerPayload{
			Symbol:    t.Symbol,
			Name:      t.Name,
			Sector:    t.Sector,
			Return1Y:  t.Return1Y,
			Synthetic: t.Synthetic,
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"loaded_at": snap.LoadedAt,
		"tickers":   tickers,
	})
}

// systemStats samples CPU and RAM usage. A short CPU interval keeps the
// health endpoint fast.
func (h *Handlers) systemStats() (float64, float64) {
	cpuAvg := 0.0
	if percents, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(percents) > 0 {
		cpuAvg = percents[0]
	} else if err != nil {
		h.log.Warn().Err(err).Msg("Failed to read CPU usage")
	}

	ramPercent := 0.0
	if stat, err := mem.VirtualMemory(); err == nil {
		ramPercent = stat.UsedPercent
	} else {
		h.log.Warn().Err(err).Msg("Failed to read memory usage")
	}

	return cpuAvg, ramPercent
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Status: "error", Message: message})
}
