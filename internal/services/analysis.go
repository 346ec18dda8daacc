// Package services orchestrates the analysis pipeline: narrative in,
// regime + portfolio + risk + economic context out.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/internal/modules/universe"
)

// NarrativeClassifier turns free-form text into a regime assessment.
type NarrativeClassifier interface {
	Classify(ctx context.Context, text string) (*domain.RegimeAssessment, error)
}

// UniverseSource serves the current candidate universe snapshot.
type UniverseSource interface {
	Snapshot(ctx context.Context) (*universe.Snapshot, error)
}

// PortfolioOptimizer selects and weights a subset of the candidates.
type PortfolioOptimizer interface {
	Optimize(ctx context.Context, candidates []domain.Ticker, regime domain.Regime) (*domain.PortfolioSelection, error)
}

// RiskAnalyzer computes risk metrics for a weighted selection.
type RiskAnalyzer interface {
	Analyze(selection *domain.PortfolioSelection, seriesBySymbol map[string][]float64) *domain.RiskMetrics
}

// EconomicContext resolves the current macro regime.
type EconomicContext interface {
	Snapshot(ctx context.Context) *domain.EconomicSnapshot
}

// TextExtractor resolves a URL input into narrative text.
type TextExtractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

// AnalysisService runs the full decision pipeline for one narrative.
type AnalysisService struct {
	classifier NarrativeClassifier
	universe   UniverseSource
	optimizer  PortfolioOptimizer
	risk       RiskAnalyzer
	economic   EconomicContext
	extractor  TextExtractor // optional; URL inputs fail without one
	log        zerolog.Logger
}

// NewAnalysisService wires the pipeline stages together.
func NewAnalysisService(
	classifier NarrativeClassifier,
	universeSource UniverseSource,
	optimizer PortfolioOptimizer,
	risk RiskAnalyzer,
	economic EconomicContext,
	extractor TextExtractor,
	log zerolog.Logger,
) *AnalysisService {
	return &AnalysisService{
		classifier: classifier,
		universe:   universeSource,
		optimizer:  optimizer,
		risk:       risk,
		economic:   economic,
		extractor:  extractor,
		log:        log.With().Str("component", "analysis").Logger(),
	}
}

// Analyze runs classify -> filter -> optimize -> risk -> economic for one
// input. URL inputs are scraped first. The context deadline applies end to
// end; each stage either honors cancellation or degrades deterministically.
func (s *AnalysisService) Analyze(ctx context.Context, input string) (*domain.AnalysisResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, domain.ErrEmptyInput
	}

	if IsURL(input) {
		if s.extractor == nil {
			return nil, fmt.Errorf("url input not supported: %w", domain.ErrScrapeFailed)
		}
		text, err := s.extractor.Extract(ctx, input)
		if err != nil {
			return nil, err
		}
		input = text
	}

	assessment, err := s.classifier.Classify(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("classifying narrative: %w", err)
	}

	snapshot, err := s.universe.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading universe: %w", err)
	}
	candidates := snapshot.Filter(assessment.Sectors)

	selection, err := s.optimizer.Optimize(ctx, candidates, assessment.Regime)
	if err != nil {
		return nil, fmt.Errorf("optimizing portfolio: %w", err)
	}

	metrics := s.risk.Analyze(selection, returnsBySymbol(candidates))
	economic := s.economic.Snapshot(ctx)

	s.log.Info().
		Str("regime", string(assessment.Regime)).
		Int("candidates", len(candidates)).
		Int("selected", len(selection.Symbols)).
		Float64("expected_return", selection.ExpectedReturn).
		Msg("Analysis completed")

	return &domain.AnalysisResult{
		Assessment: assessment,
		Selection:  selection,
		Risk:       *metrics,
		Economic:   *economic,
		Candidates: candidates,
	}, nil
}

func returnsBySymbol(tickers []domain.Ticker) map[string][]float64 {
	series := make(map[string][]float64, len(tickers))
	for _, t := range tickers {
		series[t.Symbol] = t.Returns
	}
	return series
}
