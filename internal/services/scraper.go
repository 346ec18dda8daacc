package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/domain"
)

const (
	scrapeTimeout = 10 * time.Second
	scrapeMaxLen  = 5000
	scrapeAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Scraper extracts readable narrative text from a web page: the title plus
// all paragraph text, capped at scrapeMaxLen characters.
type Scraper struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// NewScraper creates a page scraper.
func NewScraper(log zerolog.Logger) *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: scrapeTimeout},
		log:        log.With().Str("component", "scraper").Logger(),
	}
}

// IsURL reports whether the input should be scraped rather than classified
// directly.
func IsURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// Extract fetches the URL and returns its title and paragraph text. Fetch
// failures and pages with no readable text fail with domain.ErrScrapeFailed,
// since there is nothing to classify.
func (s *Scraper) Extract(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building scrape request: %w", err)
	}
	req.Header.Set("User-Agent", scrapeAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, domain.ErrScrapeFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d: %w", pageURL, resp.StatusCode, domain.ErrScrapeFailed)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", pageURL, domain.ErrScrapeFailed)
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(doc.Find("title").First().Text()))
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if b.Len() >= scrapeMaxLen {
			return
		}
		b.WriteString(" ")
		b.WriteString(strings.TrimSpace(p.Text()))
	})

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("no readable text at %s: %w", pageURL, domain.ErrScrapeFailed)
	}
	if len(text) > scrapeMaxLen {
		// Back up to a rune boundary so the cap never splits a multi-byte
		// character.
		cut := scrapeMaxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	s.log.Debug().Str("url", pageURL).Int("chars", len(text)).Msg("Scraped narrative text")
	return text, nil
}
