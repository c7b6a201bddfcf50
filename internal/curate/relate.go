package curate

import (
	"context"
	"strings"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// TextFetcher retrieves the full text of an article, best-effort.
type TextFetcher interface {
	ArticleText(ctx context.Context, url string) (string, error)
}

// RelatednessFilter confirms the company actually appears in each candidate,
// fetching the article body when it has not been fetched yet.
type RelatednessFilter struct {
	fetcher TextFetcher
}

// NewRelatednessFilter wires the content fetcher.
func NewRelatednessFilter(fetcher TextFetcher) *RelatednessFilter {
	return &RelatednessFilter{fetcher: fetcher}
}

// Apply keeps candidates whose title or article text contains the company
// name as an exact, case-sensitive substring. Fetch failures are non-fatal:
// the candidate is judged on its title alone. Kept candidates retain the
// fetched text so downstream scoring never re-fetches.
func (f *RelatednessFilter) Apply(ctx context.Context, candidates []model.Candidate, company string) ([]model.Candidate, []Skip) {
	kept := make([]model.Candidate, 0, len(candidates))
	var skips []Skip

	for _, c := range candidates {
		text := c.Content
		if text == "" && f.fetcher != nil {
			fetched, err := f.fetcher.ArticleText(ctx, c.URL)
			if err == nil {
				text = fetched
			}
		}

		if !contains(c.Title, company) && !contains(text, company) {
			skips = append(skips, Skip{
				URL:    c.URL,
				Stage:  "relatedness",
				Reason: "company name not mentioned in title or article text",
			})
			continue
		}

		c.Content = text
		kept = append(kept, c)
	}

	return kept, skips
}

// contains is a case-sensitive substring check: "ACME" in a title does not
// match "Acme".
func contains(text, needle string) bool {
	return needle != "" && strings.Contains(text, needle)
}
