package curate

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// contentScoreWindow is how much of the article body participates in keyword
// scoring, alongside the full title.
const contentScoreWindow = 300

// Scorer assigns trust and relevance scores per target industry.
//
// Precedence: the global exclusion list drops a candidate before trust
// matching is consulted; trusted domains score 1.0 and bypass keyword
// scoring; everything else gets a keyword-overlap score. Scoring is a ranking
// weight, not a gate: the optional minimum-score threshold is disabled by
// default and candidates are retained at any score, including 0.0.
type Scorer struct {
	cfg     *model.Config
	fetcher TextFetcher
}

// NewScorer builds a scorer over process-wide industry tables. The fetcher is
// optional; when present it lazily populates missing article bodies so
// keyword scoring sees more than the title.
func NewScorer(cfg *model.Config, fetcher TextFetcher) *Scorer {
	return &Scorer{cfg: cfg, fetcher: fetcher}
}

// Split partitions candidates by domain trust for the given industry.
// Excluded-domain candidates are dropped outright and never scored or ranked.
// Trusted-source candidates come back in the known bucket with score 1.0;
// the rest await keyword scoring.
func (s *Scorer) Split(candidates []model.Candidate, industry string) (known, other []model.Candidate, skips []Skip) {
	profile := s.cfg.ProfileFor(industry)

	for _, c := range candidates {
		domain := strings.ToLower(c.SourceDomain())

		if matchesAny(domain, s.cfg.ExcludedSources) {
			skips = append(skips, Skip{
				URL:    c.URL,
				Stage:  "trust",
				Reason: "domain on global exclusion list",
			})
			continue
		}

		if matchesAny(domain, profile.TrustedSources) {
			c.Score = 1.0
			known = append(known, c)
			continue
		}

		other = append(other, c)
	}

	return known, other, skips
}

// ScoreKeywords assigns each candidate the normalized count of industry
// keywords appearing in its title plus the first 300 characters of its body.
// Every candidate is returned regardless of score; when the configured
// threshold gate is enabled, candidates below ranking.min_score are dropped
// with a recorded reason instead.
func (s *Scorer) ScoreKeywords(ctx context.Context, candidates []model.Candidate, industry string) ([]model.Candidate, []Skip) {
	profile := s.cfg.ProfileFor(industry)

	keywords := make([]string, len(profile.Keywords))
	for i, kw := range profile.Keywords {
		keywords[i] = strings.ToLower(kw)
	}

	scored := make([]model.Candidate, 0, len(candidates))
	var skips []Skip

	for _, c := range candidates {
		if !c.HasContent() && s.fetcher != nil {
			if text, err := s.fetcher.ArticleText(ctx, c.URL); err == nil {
				c.Content = text
			}
		}

		text := strings.ToLower(c.Title + " " + head(c.Content, contentScoreWindow))

		matches := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				matches++
			}
		}
		c.Score = math.Min(float64(matches)/float64(len(keywords)), 1.0)

		if s.cfg.Ranking.ThresholdEnabled && c.Score < s.cfg.Ranking.MinScore {
			skips = append(skips, Skip{
				URL:    c.URL,
				Stage:  "score",
				Reason: "below configured minimum relevance score",
			})
			continue
		}

		scored = append(scored, c)
	}

	return scored, skips
}

// matchesAny reports whether the domain contains any of the entries,
// case-insensitively.
func matchesAny(domain string, entries []string) bool {
	if domain == "" {
		return false
	}
	for _, entry := range entries {
		if entry != "" && strings.Contains(domain, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}

// head returns the first n runes, never splitting a multibyte character.
func head(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}
