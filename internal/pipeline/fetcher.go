package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/cache"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/worker"
)

const fetchMaxRetries = 3

// minParagraphLength filters out navigation fragments and bylines when
// reducing a page to its article text.
const minParagraphLength = 30

// fetchSleepFunc is the sleep function used between retries (injectable for
// tests).
var fetchSleepFunc = time.Sleep

// disclaimerPattern strips the boilerplate legal disclaimer some outlets
// append to every article body.
var disclaimerPattern = regexp.MustCompile(`(?s)Disclaimer:.*?details\.`)

// Fetcher retrieves article pages and reduces them to plain paragraph text.
// Fetches are rate-limited per target host and cached for the lifetime of a
// run so no stage re-fetches a URL another stage already paid for.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	store      cache.Cache
	cacheTTL   time.Duration
}

// NewFetcher creates a Fetcher. The limiter and cache are optional; passing
// nil disables throttling or caching respectively.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, limiter *worker.Limiter, store cache.Cache, cacheTTL time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		limiter:   limiter,
		store:     store,
		cacheTTL:  cacheTTL,
	}
}

// ArticleText fetches a page and extracts its readable text: every <p> node
// longer than 30 characters, joined by newlines, with trailing disclaimers
// removed. Transient failures (5xx, 429, network errors) are retried with
// exponential backoff; a candidate whose page stays unreachable gets an
// error, which callers treat as "no content", never as a batch failure.
func (f *Fetcher) ArticleText(ctx context.Context, rawURL string) (string, error) {
	key := cache.Key(rawURL)
	if f.store != nil {
		if text, ok := f.store.Get(key); ok {
			return text, nil
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}

	body, err := f.fetchWithRetry(ctx, rawURL)
	if err != nil {
		return "", err
	}

	text, err := extractText(body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	if f.store != nil {
		f.store.Set(key, text, f.cacheTTL)
	}
	return text, nil
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, rawURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		body, retryable, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		if attempt < fetchMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			fetchSleepFunc(backoff)
		}
	}
	return "", lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (body string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", isRetryableNetworkError(err), fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retry, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", true, fmt.Errorf("read body: %w", err)
	}
	return string(raw), false, nil
}

// extractText reduces an HTML page to its paragraph text.
func extractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > minParagraphLength {
			paragraphs = append(paragraphs, text)
		}
	})

	text := strings.Join(paragraphs, "\n")
	text = disclaimerPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text), nil
}

func isRetryableNetworkError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}
