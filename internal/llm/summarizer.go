package llm

import (
	"context"
	"log/slog"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/curate"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// Summarizer turns ranked candidates into article summaries, one provider
// call per candidate. A failed call drops only that candidate from the
// summary set.
type Summarizer struct {
	provider Provider
	fetcher  curate.TextFetcher
	logger   *slog.Logger
}

func NewSummarizer(provider Provider, fetcher curate.TextFetcher, logger *slog.Logger) *Summarizer {
	return &Summarizer{provider: provider, fetcher: fetcher, logger: logger}
}

func (s *Summarizer) Summarize(ctx context.Context, candidates []model.Candidate, company string) []model.Summary {
	summaries := make([]model.Summary, 0, len(candidates))
	for _, c := range candidates {
		date := c.RawDate
		if !c.PublishedAt.IsZero() {
			date = c.PublishedAt.Format("2006-01-02")
		}

		text := c.Content
		if text == "" && s.fetcher != nil {
			fetched, err := s.fetcher.ArticleText(ctx, c.URL)
			if err != nil {
				s.logger.Warn("fetching article for summary failed", "url", c.URL, "error", err)
			} else {
				text = fetched
			}
		}

		summary, err := s.provider.Summarize(ctx, SummarizeRequest{
			Company: company,
			Title:   c.Title,
			URL:     c.URL,
			Date:    date,
			Text:    text,
		})
		if err != nil {
			s.logger.Warn("summarization failed", "url", c.URL, "error", err)
			continue
		}
		summaries = append(summaries, *summary)
	}
	return summaries
}
