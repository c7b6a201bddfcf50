package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/util"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/worker"
)

const listingHTML = `<html><body>
<div class="card"><div class="inner"><div class="meta">
<a href="/company/news/acme-launches-platform">Acme launches a brand new platform</a>
</div></div><span>May 8, 2025</span></div>
<div class="card"><div class="inner"><div class="meta">
<a href="/company/news/short">Too short</a>
</div></div><span>May 8, 2025</span></div>
<div class="card"><div class="inner"><div class="meta">
<a href="/company/news/acme-wins-industry-award">Acme wins a major industry award</a>
</div></div></div>
<div class="card"><div class="inner"><div class="meta">
<a href="javascript:void(0)">Open the archive of older stories</a>
</div></div><span>May 8, 2025</span></div>
<div class="card"><div class="inner"><div class="meta">
<a href="/about">About our great company story</a>
</div></div><span>May 8, 2025</span></div>
<div class="card"><div class="inner"><div class="meta">
<a href="/blog/acme-expands-into-european-markets-2025">Acme expands into European markets</a>
</div></div><span>April 2, 2025</span></div>
</body></html>`

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Acme News</title>
<item><title>Acme Corporation opens new research centre</title>
<link>https://acme.example/news/research-centre</link>
<pubDate>Thu, 08 May 2025 07:00:00 GMT</pubDate></item>
</channel></rss>`

func newTestCrawler(t *testing.T, locator NewsLocator) *CrawlAdapter {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 2 * time.Second
	cfg.Crawl.PolitenessDelay = 0
	adapter := NewCrawlAdapter(cfg,
		util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout),
		worker.NewLimiter(100, 10),
		locator,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	adapter.now = func() time.Time { return time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) }
	return adapter
}

func serveSite(pages map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, body)
	}))
}

func TestCrawlAdapterExtractsArticles(t *testing.T) {
	srv := serveSite(map[string]string{
		"/robots.txt":   "User-agent: *\nAllow: /",
		"/":             `<html><body><nav><a href="/company/news">Newsroom</a></nav></body></html>`,
		"/company/news": listingHTML,
	})
	defer srv.Close()

	adapter := newTestCrawler(t, nil)
	got, err := adapter.Fetch(context.Background(), srv.URL, "Acme")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Fetch() returned %d candidates, want 2: %+v", len(got), got)
	}

	first := got[0]
	if first.Title != "Acme launches a brand new platform" {
		t.Errorf("title = %q", first.Title)
	}
	if first.URL != srv.URL+"/company/news/acme-launches-platform" {
		t.Errorf("url = %q", first.URL)
	}
	if first.RawDate != "05/08/2025" {
		t.Errorf("raw date = %q, want 05/08/2025", first.RawDate)
	}
	if first.Origin != model.OriginCrawl {
		t.Errorf("origin = %q", first.Origin)
	}

	// Anchors outside the news path survive only on a long slug.
	if got[1].URL != srv.URL+"/blog/acme-expands-into-european-markets-2025" {
		t.Errorf("second url = %q", got[1].URL)
	}
}

func TestCrawlAdapterRespectsRobots(t *testing.T) {
	srv := serveSite(map[string]string{
		"/robots.txt": "User-agent: *\nDisallow: /",
	})
	defer srv.Close()

	adapter := newTestCrawler(t, nil)
	_, err := adapter.Fetch(context.Background(), srv.URL, "Acme")
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("Fetch() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestCrawlAdapterFeedFallback(t *testing.T) {
	srv := serveSite(map[string]string{
		"/robots.txt":        "User-agent: *\nAllow: /",
		"/":                  `<html><body><a href="/company/news">News</a></body></html>`,
		"/company/news":      `<html><body><p>Nothing here yet.</p></body></html>`,
		"/company/news/feed": feedXML,
	})
	defer srv.Close()

	adapter := newTestCrawler(t, nil)
	got, err := adapter.Fetch(context.Background(), srv.URL, "Acme")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Fetch() returned %d candidates, want 1", len(got))
	}
	if got[0].URL != "https://acme.example/news/research-centre" {
		t.Errorf("url = %q", got[0].URL)
	}
	if got[0].PublishedAt.IsZero() {
		t.Error("feed item should carry a parsed publication date")
	}
}

type fakeLocator struct {
	newsTab  string
	articles []model.Candidate
}

func (f *fakeLocator) FindNewsTab(context.Context, string, string) (string, error) {
	return f.newsTab, nil
}

func (f *fakeLocator) FindArticles(context.Context, string, string) ([]model.Candidate, error) {
	return f.articles, nil
}

func TestCrawlAdapterLocatorFallback(t *testing.T) {
	srv := serveSite(map[string]string{
		"/robots.txt":  "User-agent: *\nAllow: /",
		"/":            `<html><body><a href="/about">About</a></body></html>`,
		"/hidden-news": `<html><body><p>Rendered client side.</p></body></html>`,
	})
	defer srv.Close()

	locator := &fakeLocator{
		articles: []model.Candidate{{
			Title:  "Acme announces quarterly results",
			URL:    "https://acme.example/news/q2",
			Origin: model.OriginCrawl,
		}},
	}
	adapter := newTestCrawler(t, locator)
	locator.newsTab = srv.URL + "/hidden-news"

	got, err := adapter.Fetch(context.Background(), srv.URL, "Acme")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://acme.example/news/q2" {
		t.Fatalf("Fetch() = %+v, want the locator's candidate", got)
	}
}

func TestCrawlAdapterNoNewsSection(t *testing.T) {
	srv := serveSite(map[string]string{
		"/robots.txt": "User-agent: *\nAllow: /",
		"/":           `<html><body><a href="/about">About</a></body></html>`,
	})
	defer srv.Close()

	adapter := newTestCrawler(t, nil)
	_, err := adapter.Fetch(context.Background(), srv.URL, "Acme")
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("Fetch() error = %v, want ErrSourceUnavailable", err)
	}
}
