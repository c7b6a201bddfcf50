package curate

import (
	"sort"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// Rank orders candidates descending by (relevance score, publication date)
// and truncates to the first limit elements. Score is the primary key, date
// the tie-break; candidates tying on both keys keep their prior relative
// order. No minimum-score floor applies here: a zero-scored candidate still
// appears when fewer than limit candidates qualify.
func Rank(candidates []model.Candidate, limit int) []model.Candidate {
	ranked := make([]model.Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].PublishedAt.After(ranked[j].PublishedAt)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
