package regime

import (
	"strings"

	"github.com/aristath/advisor/internal/domain"
)

// Sentiment thresholds. The sentiment score takes precedence over keyword
// hits when the two disagree.
const (
	AggressiveThreshold = 0.62
	DefensiveThreshold  = 0.38
)

// Sector tilts per regime. The defensive and aggressive sets are curated;
// neutral falls back to broad diversification.
var sectorTilts = map[domain.Regime][]string{
	domain.RegimeDefensive:  {"Gold", "Utilities", "Bonds", "Consumer Staples"},
	domain.RegimeAggressive: {"Technology", "Semiconductors", "Crypto", "Growth"},
	domain.RegimeNeutral:    {"Diversified", "S&P500"},
}

// SectorsFor returns a copy of the sector tilt for the given regime.
func SectorsFor(r domain.Regime) []string {
	tilt := sectorTilts[r]
	out := make([]string, len(tilt))
	copy(out, tilt)
	return out
}

// rule is one entry of the ordered classification table: the first rule whose
// keyword matches decides the regime. Keeping the table flat (rather than
// nested conditionals) keeps the tie-break policy auditable.
type rule struct {
	keyword string
	regime  domain.Regime
}

// keywordRules are evaluated in order against the lowercased narrative.
var keywordRules = []rule{
	// Risk-off signals
	{"recession", domain.RegimeDefensive},
	{"war", domain.RegimeDefensive},
	{"inflation", domain.RegimeDefensive},
	{"crash", domain.RegimeDefensive},
	{"crisis", domain.RegimeDefensive},
	{"safe haven", domain.RegimeDefensive},
	{"flight to safety", domain.RegimeDefensive},
	{"gold", domain.RegimeDefensive},
	{"fear", domain.RegimeDefensive},

	// Risk-on signals
	{"growth", domain.RegimeAggressive},
	{"boom", domain.RegimeAggressive},
	{"tech", domain.RegimeAggressive},
	{"rally", domain.RegimeAggressive},
	{"bull", domain.RegimeAggressive},
	{"ai", domain.RegimeAggressive},
	{"semiconductor", domain.RegimeAggressive},
}

// matchKeyword returns the first matching rule, or nil when no keyword hits.
// Short keywords ("ai") match whole words only; longer ones match substrings
// so that "bullish" still triggers "bull".
func matchKeyword(text string) *rule {
	lowered := strings.ToLower(text)
	words := fieldsSet(lowered)

	for i := range keywordRules {
		r := &keywordRules[i]
		if len(r.keyword) <= 2 {
			if words[r.keyword] {
				return r
			}
			continue
		}
		if strings.Contains(lowered, r.keyword) {
			return r
		}
	}
	return nil
}

func fieldsSet(text string) map[string]bool {
	set := make(map[string]bool)
	word := strings.Builder{}
	flush := func() {
		if word.Len() > 0 {
			set[word.String()] = true
			word.Reset()
		}
	}
	for _, r := range text {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return set
}
