package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/curate"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/util"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/worker"
)

// feedPaths are probed, in order, when the anchor scan of the news page
// yields nothing. Relative to the news page first, then the site root.
var feedPaths = []string{"/feed", "/rss", "/rss.xml", "/atom.xml"}

// CrawlAdapter discovers article candidates directly from a company website:
// robots gate, news-section discovery, anchor scan, then feed and LLM
// fallbacks when the heuristics come up empty.
type CrawlAdapter struct {
	client    *http.Client
	userAgent string
	robots    *util.RobotsChecker
	limiter   *worker.Limiter
	locator   NewsLocator
	cfg       model.CrawlConfig
	logger    *slog.Logger
	now       func() time.Time
}

func NewCrawlAdapter(cfg *model.Config, robots *util.RobotsChecker, limiter *worker.Limiter, locator NewsLocator, logger *slog.Logger) *CrawlAdapter {
	return &CrawlAdapter{
		client: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: cfg.HTTP.UserAgent,
		robots:    robots,
		limiter:   limiter,
		locator:   locator,
		cfg:       cfg.Crawl,
		logger:    logger,
		now:       time.Now,
	}
}

// Fetch crawls the company website and returns date-bearing article
// candidates. An empty slice with a nil error means the site simply had
// nothing to offer; ErrSourceUnavailable means the site could not be
// crawled at all.
func (a *CrawlAdapter) Fetch(ctx context.Context, website, company string) ([]model.Candidate, error) {
	allowed, _, err := a.robots.CanFetch(ctx, website)
	if err != nil {
		a.logger.Warn("robots check failed, proceeding", "url", website, "error", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: robots.txt disallows %s", ErrSourceUnavailable, website)
	}

	newsURL := a.findNewsPage(ctx, website)
	if newsURL == "" && a.locator != nil {
		located, err := a.locator.FindNewsTab(ctx, website, company)
		if err != nil {
			a.logger.Warn("news tab lookup failed", "website", website, "error", err)
		} else {
			newsURL = located
		}
	}
	if newsURL == "" {
		return nil, fmt.Errorf("%w: no news section found on %s", ErrSourceUnavailable, website)
	}

	candidates, err := a.scanArticles(ctx, newsURL)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		candidates = a.probeFeeds(ctx, newsURL, website)
	}
	if len(candidates) == 0 && a.locator != nil {
		located, err := a.locator.FindArticles(ctx, newsURL, company)
		if err != nil {
			a.logger.Warn("article lookup failed", "news_url", newsURL, "error", err)
		} else {
			candidates = located
		}
	}
	return candidates, nil
}

// findNewsPage fetches the site root and returns the first anchor whose href
// or text mentions one of the configured navigation keywords.
func (a *CrawlAdapter) findNewsPage(ctx context.Context, website string) string {
	doc, err := a.fetchDocument(ctx, website)
	if err != nil {
		a.logger.Warn("fetching site root failed", "url", website, "error", err)
		return ""
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		lowerHref := strings.ToLower(href)
		lowerText := strings.ToLower(strings.TrimSpace(sel.Text()))
		for _, kw := range a.cfg.NavKeywords {
			if strings.Contains(lowerHref, kw) || strings.Contains(lowerText, kw) {
				found = resolveURL(website, href)
				return found == ""
			}
		}
		return true
	})
	return found
}

// scanArticles walks the anchors of the news page and keeps those that look
// like article links: under the news path (or carrying a long slug), with a
// real title, and with a publication date somewhere in the surrounding markup.
func (a *CrawlAdapter) scanArticles(ctx context.Context, newsURL string) ([]model.Candidate, error) {
	allowed, delay, err := a.robots.CanFetch(ctx, newsURL)
	if err != nil {
		a.logger.Warn("robots check failed, proceeding", "url", newsURL, "error", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: robots.txt disallows %s", ErrSourceUnavailable, newsURL)
	}
	// robots crawl-delay wins over the configured politeness floor.
	if delay < a.cfg.PolitenessDelay {
		delay = a.cfg.PolitenessDelay
	}
	if err := a.limiter.WaitWithDelay(ctx, newsURL, delay); err != nil {
		return nil, err
	}

	doc, err := a.fetchDocument(ctx, newsURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrSourceUnavailable, newsURL, err)
	}

	basePath := strings.TrimRight(urlPath(newsURL), "/")
	now := a.now()
	seen := make(map[string]struct{})
	var candidates []model.Candidate

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		title := strings.TrimSpace(sel.Text())
		if href == "" || title == "" {
			return true
		}
		if strings.HasPrefix(href, "javascript") || strings.HasPrefix(href, "#") {
			return true
		}
		full := resolveURL(newsURL, href)
		if full == "" || full == newsURL {
			return true
		}
		if !strings.HasPrefix(urlPath(full), basePath+"/") && len(urlSlug(full)) <= 20 {
			return true
		}
		if utf8.RuneCountInString(title) < a.cfg.MinTitleLength {
			return true
		}
		if _, dup := seen[full]; dup {
			return true
		}

		published, ok := a.dateNear(sel, now)
		if !ok {
			a.logger.Debug("no date near anchor, skipping", "url", full)
			return true
		}

		seen[full] = struct{}{}
		candidates = append(candidates, model.Candidate{
			Title:       curate.CleanTitle(title),
			URL:         full,
			RawDate:     published.Format("01/02/2006"),
			PublishedAt: published,
			Origin:      model.OriginCrawl,
		})
		return len(candidates) < a.cfg.MaxArticles
	})
	return candidates, nil
}

// dateNear looks for a parseable date in the anchor's own text and up to
// three enclosing elements. Listing pages usually keep the date in a sibling
// node, so the anchor alone is rarely enough.
func (a *CrawlAdapter) dateNear(sel *goquery.Selection, now time.Time) (time.Time, bool) {
	node := sel
	for depth := 0; depth <= 3; depth++ {
		if d, err := curate.NormalizeDate(node.Text(), now); err == nil {
			return d, true
		}
		node = node.Parent()
		if node.Length() == 0 {
			break
		}
	}
	return time.Time{}, false
}

// probeFeeds tries the common feed locations under the news page and the
// site root, returning the items of the first feed that parses.
func (a *CrawlAdapter) probeFeeds(ctx context.Context, newsURL, website string) []model.Candidate {
	parser := gofeed.NewParser()
	parser.UserAgent = a.userAgent

	now := a.now()
	bases := []string{strings.TrimRight(newsURL, "/"), strings.TrimRight(website, "/")}
	for _, base := range bases {
		for _, path := range feedPaths {
			feedURL := base + path
			feed, err := parser.ParseURLWithContext(feedURL, ctx)
			if err != nil || len(feed.Items) == 0 {
				continue
			}
			a.logger.Info("using feed fallback", "feed", feedURL, "items", len(feed.Items))

			var candidates []model.Candidate
			for _, item := range feed.Items {
				if item.Link == "" || item.Title == "" {
					continue
				}
				c := model.Candidate{
					Title:   curate.CleanTitle(strings.TrimSpace(item.Title)),
					URL:     item.Link,
					RawDate: item.Published,
					Origin:  model.OriginCrawl,
				}
				if item.PublishedParsed != nil {
					published := *item.PublishedParsed
					if published.After(now) {
						published = published.AddDate(-1, 0, 0)
					}
					c.PublishedAt = published
				}
				candidates = append(candidates, c)
				if len(candidates) >= a.cfg.MaxArticles {
					break
				}
			}
			if len(candidates) > 0 {
				return candidates
			}
		}
	}
	return nil
}

func (a *CrawlAdapter) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}

// urlSlug returns the last path segment, lowercased. Long slugs are a strong
// signal of an article link even when the URL lives outside the news path.
func urlSlug(rawURL string) string {
	path := strings.TrimRight(urlPath(rawURL), "/")
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		path = path[idx+1:]
	}
	return strings.ToLower(path)
}
