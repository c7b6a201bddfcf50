package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	requests []SummarizeRequest
	err      error
	failURL  string
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*model.Summary, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if m.failURL != "" && req.URL == m.failURL {
		return nil, errors.New("malformed model output")
	}
	return &model.Summary{
		Title:           req.Title,
		URL:             req.URL,
		PublicationDate: req.Date,
		Summary:         "summary of " + req.Title,
		MainTopics:      []string{"topic"},
	}, nil
}

func (m *MockProvider) FindNewsTab(context.Context, string, string) (string, error) {
	return "", nil
}

func (m *MockProvider) FindArticles(context.Context, string, string) ([]model.Candidate, error) {
	return nil, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool { return true }

type fetcherFunc func(ctx context.Context, url string) (string, error)

func (f fetcherFunc) ArticleText(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSummarizer_UsesAttachedContent(t *testing.T) {
	provider := &MockProvider{}
	fetcher := fetcherFunc(func(ctx context.Context, url string) (string, error) {
		t.Errorf("Unexpected fetch for %s", url)
		return "", nil
	})
	s := NewSummarizer(provider, fetcher, testLogger())

	candidates := []model.Candidate{{
		Title:       "Acme launches platform",
		URL:         "https://acme.example/news/launch",
		PublishedAt: time.Date(2025, 5, 8, 0, 0, 0, 0, time.UTC),
		Content:     "Full article text.",
	}}

	got := s.Summarize(context.Background(), candidates, "Acme")
	if len(got) != 1 {
		t.Fatalf("Summarize() returned %d summaries, want 1", len(got))
	}
	if got[0].PublicationDate != "2025-05-08" {
		t.Errorf("publication date = %q", got[0].PublicationDate)
	}
	if provider.requests[0].Text != "Full article text." {
		t.Errorf("provider saw text %q", provider.requests[0].Text)
	}
}

func TestSummarizer_FetchesMissingContent(t *testing.T) {
	provider := &MockProvider{}
	fetcher := fetcherFunc(func(ctx context.Context, url string) (string, error) {
		return "fetched body", nil
	})
	s := NewSummarizer(provider, fetcher, testLogger())

	candidates := []model.Candidate{{
		Title:   "Acme wins award",
		URL:     "https://acme.example/news/award",
		RawDate: "05/08/2025",
	}}

	got := s.Summarize(context.Background(), candidates, "Acme")
	if len(got) != 1 {
		t.Fatalf("Summarize() returned %d summaries, want 1", len(got))
	}
	if provider.requests[0].Text != "fetched body" {
		t.Errorf("provider saw text %q, want fetched body", provider.requests[0].Text)
	}
	if provider.requests[0].Date != "05/08/2025" {
		t.Errorf("provider saw date %q, want the raw date", provider.requests[0].Date)
	}
}

func TestSummarizer_ProviderFailureDropsCandidate(t *testing.T) {
	provider := &MockProvider{err: errors.New("quota exceeded")}
	s := NewSummarizer(provider, nil, testLogger())

	candidates := []model.Candidate{{
		Title:       "Acme expands",
		URL:         "https://acme.example/news/expand",
		PublishedAt: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		Content:     "text",
	}}

	got := s.Summarize(context.Background(), candidates, "Acme")
	if len(got) != 0 {
		t.Fatalf("Summarize() returned %d summaries, want 0: %+v", len(got), got)
	}
}

func TestSummarizer_FailureDropsOnlyThatCandidate(t *testing.T) {
	provider := &MockProvider{failURL: "https://acme.example/news/broken"}
	s := NewSummarizer(provider, nil, testLogger())

	candidates := []model.Candidate{
		{Title: "Acme breaks ground", URL: "https://acme.example/news/ground", Content: "text"},
		{Title: "Acme press note", URL: "https://acme.example/news/broken", Content: "text"},
		{Title: "Acme ships update", URL: "https://acme.example/news/update", Content: "text"},
	}

	got := s.Summarize(context.Background(), candidates, "Acme")
	if len(got) != 2 {
		t.Fatalf("Summarize() returned %d summaries, want 2: %+v", len(got), got)
	}
	if got[0].URL != "https://acme.example/news/ground" || got[1].URL != "https://acme.example/news/update" {
		t.Errorf("surviving summaries = %+v", got)
	}
}

func TestSummarizer_FetchFailureStillSummarizes(t *testing.T) {
	provider := &MockProvider{}
	fetcher := fetcherFunc(func(ctx context.Context, url string) (string, error) {
		return "", errors.New("connection refused")
	})
	s := NewSummarizer(provider, fetcher, testLogger())

	got := s.Summarize(context.Background(), []model.Candidate{{
		Title: "Acme hires CFO", URL: "https://acme.example/news/cfo",
	}}, "Acme")
	if len(got) != 1 {
		t.Fatalf("Summarize() returned %d summaries, want 1", len(got))
	}
	if provider.requests[0].Text != "" {
		t.Errorf("provider saw text %q, want empty after fetch failure", provider.requests[0].Text)
	}
}
