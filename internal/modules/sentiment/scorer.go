// Package sentiment scores narrative text into a scalar sentiment in [0,1].
package sentiment

import (
	"strings"
	"unicode"
)

const (
	// NeutralScore is returned for empty or unscorable text.
	NeutralScore = 0.5

	// scale converts the accumulated lexicon weight into a shift away from
	// neutral. Each unit of weight moves the score by 0.08.
	scale = 0.08

	// DefaultHeadlineWeight is the share of the blended score contributed
	// by headline sentiment when headlines are present.
	DefaultHeadlineWeight = 0.5
)

// Scorer is a deterministic lexical sentiment scorer. Scoring is total: it
// never fails, and unscorable input maps to NeutralScore.
type Scorer struct {
	headlineWeight float64
}

// NewScorer creates a scorer with the default headline blend.
func NewScorer() *Scorer {
	return &Scorer{headlineWeight: DefaultHeadlineWeight}
}

// NewScorerWithHeadlineWeight creates a scorer with a custom headline blend
// in [0,1]. Out-of-range values fall back to the default.
func NewScorerWithHeadlineWeight(w float64) *Scorer {
	if w < 0 || w > 1 {
		w = DefaultHeadlineWeight
	}
	return &Scorer{headlineWeight: w}
}

// Score combines the primary narrative with optional auxiliary headlines.
// Identical inputs always produce identical scores.
func (s *Scorer) Score(text string, headlines []string) float64 {
	textScore := scoreText(text)

	if len(headlines) == 0 {
		return textScore
	}

	sum := 0.0
	for _, h := range headlines {
		sum += scoreText(h)
	}
	headlineScore := sum / float64(len(headlines))

	return clamp(textScore*(1-s.headlineWeight) + headlineScore*s.headlineWeight)
}

// scoreText scores a single piece of text. Phrases are consumed first so
// their component words are not counted twice.
func scoreText(text string) float64 {
	normalized := normalize(text)
	if normalized == "" {
		return NeutralScore
	}

	weight := 0.0
	for phrase, w := range phraseWeights {
		count := strings.Count(normalized, phrase)
		if count > 0 {
			weight += w * float64(count)
			normalized = strings.ReplaceAll(normalized, phrase, " ")
		}
	}

	for _, token := range strings.Fields(normalized) {
		if w, ok := wordWeights[token]; ok {
			weight += w
		}
	}

	return clamp(NeutralScore + weight*scale)
}

// normalize lowercases the text and strips everything but letters, digits and
// spaces, so punctuation never splits a lexicon hit.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
