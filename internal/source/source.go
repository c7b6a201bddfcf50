package source

import (
	"context"
	"errors"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// ErrSourceUnavailable reports that a whole source adapter failed. The
// orchestrator recovers by treating that source's contribution as empty.
var ErrSourceUnavailable = errors.New("source unavailable")

// NewsLocator is the optional LLM fallback for the crawl adapter: it recovers
// the news-section URL when heuristic discovery fails, and article links when
// the anchor scan and feed probe both come up empty.
type NewsLocator interface {
	FindNewsTab(ctx context.Context, baseURL, company string) (string, error)
	FindArticles(ctx context.Context, newsURL, company string) ([]model.Candidate, error)
}
