// Package regime classifies a free-form macro narrative into a trading
// regime and sector tilt.
package regime

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/internal/modules/sentiment"
)

// HeadlineProvider supplies recent market headlines to enrich classification.
// Implementations may fail; classification then falls back to text-only
// scoring and flags the assessment as synthetic.
type HeadlineProvider interface {
	FetchHeadlines(ctx context.Context, limit int) ([]string, error)
}

// Classifier maps narrative text to a RegimeAssessment using the sentiment
// scorer and the ordered keyword rule table.
type Classifier struct {
	scorer       *sentiment.Scorer
	headlines    HeadlineProvider // optional
	maxHeadlines int
	log          zerolog.Logger
}

// NewClassifier creates a classifier. headlines may be nil, in which case
// classification runs text-only without setting the synthetic flag.
func NewClassifier(scorer *sentiment.Scorer, headlines HeadlineProvider, log zerolog.Logger) *Classifier {
	return &Classifier{
		scorer:       scorer,
		headlines:    headlines,
		maxHeadlines: 5,
		log:          log.With().Str("component", "regime_classifier").Logger(),
	}
}

// Classify produces a RegimeAssessment for the given narrative.
// Empty/whitespace-only text fails with domain.ErrEmptyInput; everything else
// is classified deterministically. Sentiment thresholds win over keyword hits
// when the two signals disagree.
func (c *Classifier) Classify(ctx context.Context, text string) (*domain.RegimeAssessment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyInput
	}

	headlines, synthetic := c.fetchHeadlines(ctx)
	score := c.scorer.Score(text, headlines)

	regime, reasoning := decide(score, text)

	c.log.Debug().
		Str("regime", string(regime)).
		Float64("sentiment", score).
		Bool("synthetic", synthetic).
		Int("num_headlines", len(headlines)).
		Msg("Classified narrative")

	return &domain.RegimeAssessment{
		Regime:    regime,
		Sectors:   SectorsFor(regime),
		Reasoning: reasoning,
		Sentiment: score,
		Headlines: headlines,
		Synthetic: synthetic,
	}, nil
}

// fetchHeadlines retrieves auxiliary headlines when a provider is configured.
// The second return value is true when the provider was requested but
// unavailable, per the synthetic-flag contract.
func (c *Classifier) fetchHeadlines(ctx context.Context) ([]string, bool) {
	if c.headlines == nil {
		return nil, false
	}

	headlines, err := c.headlines.FetchHeadlines(ctx, c.maxHeadlines)
	if err != nil {
		c.log.Warn().Err(err).Msg("Headline fetch failed, falling back to text-only classification")
		return nil, true
	}
	return headlines, false
}

// decide applies the tie-break policy: sentiment thresholds first, then the
// keyword table, then neutral.
func decide(score float64, text string) (domain.Regime, string) {
	if score >= AggressiveThreshold {
		return domain.RegimeAggressive,
			fmt.Sprintf("Sentiment is strongly risk-on (%.2f); favoring growth-oriented sectors.", score)
	}
	if score <= DefensiveThreshold {
		return domain.RegimeDefensive,
			fmt.Sprintf("Sentiment is strongly risk-off (%.2f); rotating into defensive assets.", score)
	}

	if r := matchKeyword(text); r != nil {
		switch r.regime {
		case domain.RegimeDefensive:
			return r.regime,
				fmt.Sprintf("Detected risk-off signal %q with mixed sentiment (%.2f); tilting defensive.", r.keyword, score)
		case domain.RegimeAggressive:
			return r.regime,
				fmt.Sprintf("Detected risk-on signal %q with mixed sentiment (%.2f); tilting aggressive.", r.keyword, score)
		}
	}

	return domain.RegimeNeutral,
		fmt.Sprintf("No dominant signal detected (sentiment %.2f); staying diversified.", score)
}
