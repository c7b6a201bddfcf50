package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/cache"
)

const articleHTML = `<html><body>
<nav><p>Menu</p></nav>
<p>Short.</p>
<p>The company announced a major expansion of its European operations today.</p>
<p>Analysts expect the move to strengthen its position in the payments market.</p>
<p>Disclaimer: this article is provided for information only, see terms for details.</p>
</body></html>`

func newTestFetcher(store cache.Cache) *Fetcher {
	return NewFetcher(5*time.Second, "test-agent", 1<<20, nil, store, time.Minute)
}

func TestFetcher_ArticleText_ExtractsParagraphs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	text, err := newTestFetcher(nil).ArticleText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(text, "major expansion") {
		t.Errorf("expected article paragraph in output, got %q", text)
	}
	if strings.Contains(text, "Short.") || strings.Contains(text, "Menu") {
		t.Errorf("short fragments should be filtered out, got %q", text)
	}
	if strings.Contains(text, "Disclaimer") {
		t.Errorf("disclaimer should be stripped, got %q", text)
	}
}

func TestFetcher_ArticleText_RetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	text, err := newTestFetcher(nil).ArticleText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
	if text == "" {
		t.Error("expected extracted text")
	}
}

func TestFetcher_ArticleText_NoRetryOnNotFound(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := newTestFetcher(nil).ArticleText(context.Background(), server.URL); err == nil {
		t.Fatal("expected an error for 404")
	}
	if attempts.Load() != 1 {
		t.Errorf("404 is not transient; expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetcher_ArticleText_UsesCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	fetcher := newTestFetcher(cache.NewMemory(time.Minute))

	first, err := fetcher.ArticleText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := fetcher.ArticleText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("expected the second read to come from cache, got %d fetches", hits.Load())
	}
	if first != second {
		t.Error("cached text differs from fetched text")
	}
}
