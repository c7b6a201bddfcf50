package curate

import (
	"fmt"
	"strings"
	"time"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// searchDateLayout parses the search service's structured date strings, which
// lead with a MM/DD/YYYY date before timezone noise
// ("05/08/2025, 07:00 AM, +0000 UTC").
const searchDateLayout = "01/02/2006"

// RecencyFilter drops candidates older than a configurable age window.
type RecencyFilter struct {
	maxAge time.Duration
}

// NewRecencyFilter builds a filter with the given window in days.
func NewRecencyFilter(maxAgeDays int) *RecencyFilter {
	return &RecencyFilter{maxAge: time.Duration(maxAgeDays) * 24 * time.Hour}
}

// Apply keeps only candidates whose publication date is strictly after
// now - window. Candidates arriving without a normalized date get a defensive
// re-parse of their raw date string; failures drop that candidate with a
// recorded reason, never the batch. A candidate dated exactly at the cutoff
// is excluded.
func (f *RecencyFilter) Apply(candidates []model.Candidate, now time.Time) ([]model.Candidate, []Skip) {
	cutoff := now.Add(-f.maxAge)

	kept := make([]model.Candidate, 0, len(candidates))
	var skips []Skip

	for _, c := range candidates {
		published := c.PublishedAt
		if published.IsZero() {
			parsed, err := parseRawDate(c.RawDate, now)
			if err != nil {
				skips = append(skips, Skip{
					URL:    c.URL,
					Stage:  "recency",
					Reason: fmt.Sprintf("could not parse date %q: %v", c.RawDate, err),
				})
				continue
			}
			published = parsed
		}

		if !published.After(cutoff) {
			skips = append(skips, Skip{
				URL:    c.URL,
				Stage:  "recency",
				Reason: fmt.Sprintf("published %s, older than %d days", published.Format("2006-01-02"), int(f.maxAge.Hours()/24)),
			})
			continue
		}

		c.PublishedAt = published
		kept = append(kept, c)
	}

	return kept, skips
}

// parseRawDate resolves a raw date string the way normalized dates are
// resolved: the leading MM/DD/YYYY component is parsed and future dates are
// pulled back one year so the publication-date invariant holds on both
// source paths.
func parseRawDate(raw string, now time.Time) (time.Time, error) {
	datePart := strings.TrimSpace(raw)
	if idx := strings.Index(datePart, ","); idx >= 0 {
		datePart = datePart[:idx]
	}

	parsed, err := time.Parse(searchDateLayout, datePart)
	if err != nil {
		return time.Time{}, err
	}
	if parsed.After(now) {
		parsed = parsed.AddDate(-1, 0, 0)
	}
	return parsed, nil
}
