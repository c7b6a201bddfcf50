package curate

import (
	"strings"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// Deduplicate collapses candidates sharing a URL, keeping the first
// occurrence and preserving order. A candidate with no URL is never emitted:
// lacking a dedup key, it is filtered out entirely rather than exempted.
func Deduplicate(candidates []model.Candidate) []model.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]model.Candidate, 0, len(candidates))

	for _, c := range candidates {
		link := strings.TrimSpace(c.URL)
		if link == "" {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		unique = append(unique, c)
	}

	return unique
}
