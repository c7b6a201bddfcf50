package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/cache"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/curate"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/llm"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/source"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/util"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/worker"
)

// CrawlSource produces candidates from the company's own website.
type CrawlSource interface {
	Fetch(ctx context.Context, website, company string) ([]model.Candidate, error)
}

// SearchSource produces candidates from an external news search service.
type SearchSource interface {
	Fetch(ctx context.Context, company string) ([]model.Candidate, error)
}

// Summarizer turns the ranked candidates into article summaries.
type Summarizer interface {
	Summarize(ctx context.Context, candidates []model.Candidate, company string) []model.Summary
}

// Request identifies one curation run.
type Request struct {
	Company  string
	Website  string
	Industry string
}

// Result is what a run produces. Skips records every candidate dropped
// along the way, with the stage that dropped it.
type Result struct {
	Candidates []model.Candidate
	Summaries  []model.Summary
	Skips      []curate.Skip
}

// Pipeline runs the full curation flow: gather from both sources, filter,
// score, rank, and optionally summarize. Failures degrade the result instead
// of aborting it: a dead source contributes nothing, a dead candidate is
// skipped, and a run where everything fails yields an empty result.
type Pipeline struct {
	crawl      CrawlSource
	search     SearchSource
	related    *curate.RelatednessFilter
	recency    *curate.RecencyFilter
	scorer     *curate.Scorer
	summarizer Summarizer
	fetcher    *Fetcher
	pool       *worker.Pool
	cfg        *model.Config
	logger     *slog.Logger
	now        func() time.Time
}

// New wires a pipeline from configuration. An LLM provider is optional; when
// none is configured the crawl adapter loses its locator fallback and the
// result carries no summaries.
func New(cfg *model.Config, logger *slog.Logger) (*Pipeline, error) {
	limiter := worker.NewLimiter(cfg.Concurrency.DomainRPS, cfg.Concurrency.DomainBurst)

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewMemory(cfg.Cache.TTL)
	}
	fetcher := NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, limiter, store, cfg.Cache.TTL)

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}
	var locator source.NewsLocator
	var summarizer Summarizer
	if provider != nil {
		locator = provider
		summarizer = llm.NewSummarizer(provider, fetcher, logger)
	}

	robots := util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)

	return &Pipeline{
		crawl:      source.NewCrawlAdapter(cfg, robots, limiter, locator, logger),
		search:     source.NewSearchAdapter(cfg),
		related:    curate.NewRelatednessFilter(fetcher),
		recency:    curate.NewRecencyFilter(cfg.Recency.MaxAgeDays),
		scorer:     curate.NewScorer(cfg, fetcher),
		summarizer: summarizer,
		fetcher:    fetcher,
		pool:       worker.NewPool(cfg.Concurrency.FetchWorkers),
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Run executes one curation pass. It never returns an error: whatever
// survives the stages is the answer, and an empty result is a valid answer.
func (p *Pipeline) Run(ctx context.Context, req Request) *Result {
	result := &Result{}

	crawled := p.fromCrawl(ctx, req)
	searched := p.fromSearch(ctx, req)
	p.logger.Info("sources gathered",
		"company", req.Company, "crawled", len(crawled), "searched", len(searched))

	crawled = p.prefetch(ctx, crawled)

	kept, skips := p.related.Apply(ctx, crawled, req.Company)
	result.Skips = append(result.Skips, skips...)

	merged := make([]model.Candidate, 0, len(kept)+len(searched))
	merged = append(merged, kept...)
	merged = append(merged, searched...)

	merged, skips = p.recency.Apply(merged, p.now())
	result.Skips = append(result.Skips, skips...)

	merged = curate.Deduplicate(merged)

	known, other, skips := p.scorer.Split(merged, req.Industry)
	result.Skips = append(result.Skips, skips...)

	scored, skips := p.scorer.ScoreKeywords(ctx, other, req.Industry)
	result.Skips = append(result.Skips, skips...)

	combined := make([]model.Candidate, 0, len(scored)+len(known))
	combined = append(combined, scored...)
	combined = append(combined, known...)

	result.Candidates = curate.Rank(combined, p.cfg.Ranking.Cap)
	p.logger.Info("curation complete",
		"company", req.Company, "kept", len(result.Candidates), "skipped", len(result.Skips))

	if p.summarizer != nil && len(result.Candidates) > 0 {
		// Always non-nil here: an empty set records that every candidate
		// failed summarization, as opposed to summarization being disabled.
		result.Summaries = p.summarizer.Summarize(ctx, result.Candidates, req.Company)
	}
	return result
}

func (p *Pipeline) fromCrawl(ctx context.Context, req Request) []model.Candidate {
	if req.Website == "" || p.crawl == nil {
		return nil
	}
	candidates, err := p.crawl.Fetch(ctx, req.Website, req.Company)
	if err != nil {
		p.logger.Warn("site crawl failed", "website", req.Website, "error", err)
		return nil
	}
	return candidates
}

func (p *Pipeline) fromSearch(ctx context.Context, req Request) []model.Candidate {
	if p.search == nil {
		return nil
	}
	candidates, err := p.search.Fetch(ctx, req.Company)
	if err != nil {
		p.logger.Warn("news search failed", "company", req.Company, "error", err)
		return nil
	}
	return candidates
}

// prefetch warms article bodies for crawl candidates on the worker pool, so
// the relatedness filter does not fetch them one at a time. Failures stay
// silent here; the filter falls back to judging the title alone.
func (p *Pipeline) prefetch(ctx context.Context, candidates []model.Candidate) []model.Candidate {
	if p.fetcher == nil || len(candidates) == 0 {
		return candidates
	}

	urls := make([]string, 0, len(candidates))
	indexes := make([]int, 0, len(candidates))
	for i, c := range candidates {
		if c.Content == "" && c.URL != "" {
			urls = append(urls, c.URL)
			indexes = append(indexes, i)
		}
	}
	if len(urls) == 0 {
		return candidates
	}

	for _, res := range p.pool.FetchAll(ctx, urls, p.fetcher.ArticleText) {
		if res.Err != nil {
			p.logger.Debug("prefetch failed", "url", res.URL, "error", res.Err)
			continue
		}
		candidates[indexes[res.Index]].Content = res.Text
	}
	return candidates
}
