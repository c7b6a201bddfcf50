package llm

import (
	"context"
	"fmt"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a structured summary of a single article
	Summarize(ctx context.Context, req SummarizeRequest) (*model.Summary, error)

	// FindNewsTab recovers the news-section URL of a website when the
	// heuristic navigation scan finds nothing
	FindNewsTab(ctx context.Context, websiteURL, company string) (string, error)

	// FindArticles extracts article candidates from a news page whose
	// markup defeated the anchor scanner
	FindArticles(ctx context.Context, newsURL, company string) ([]model.Candidate, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest carries one article into summarization.
type SummarizeRequest struct {
	// Company the article was curated for
	Company string

	// Title, URL and Date as curated
	Title string
	URL   string
	Date  string

	// Text is the extracted article body (may be truncated by the provider)
	Text string
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the hosted API
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// buildSummaryPrompt constructs the default summarization prompt. The
// provider requests a JSON object so the response can be decoded directly
// into model.Summary.
func buildSummaryPrompt(req SummarizeRequest) string {
	return fmt.Sprintf(`Summarize the following news article about %s.

Respond with a single JSON object with exactly these keys:
- "title": the article title
- "url": %q
- "author": the author's name, or "" if not stated in the text
- "publication_date": %q
- "summary": 2-4 sentences covering what happened and why it matters
- "main_topics": a list of 1-5 short topic labels

Do not invent facts that are not in the text. If the text is empty,
summarize from the title alone.

Title: %s

Article text:
%s`, req.Company, req.URL, req.Date, req.Title, req.Text)
}

// buildNewsTabPrompt asks for the news-section URL of a homepage.
func buildNewsTabPrompt(websiteURL, company, html string) string {
	return fmt.Sprintf(`The HTML below is the homepage of %s (%s).
Find the link to the site's news, press or media section.

Respond with a single JSON object: {"news_url": "<absolute URL>"}.
Use "" if the page has no such section.

HTML:
%s`, company, websiteURL, html)
}

// buildArticlesPrompt asks for article links on a news page.
func buildArticlesPrompt(newsURL, company, html string) string {
	return fmt.Sprintf(`The HTML below is the news page of %s (%s).
List the news articles it links to.

Respond with a single JSON object:
{"articles": [{"title": "...", "url": "<absolute URL>", "date": "MM/DD/YYYY"}]}.
Skip entries without a visible publication date. Use [] if there are none.

HTML:
%s`, company, newsURL, html)
}
