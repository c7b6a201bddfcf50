package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// SearchAdapter queries an external news-search service (SerpAPI's
// google_news engine) and maps its results to candidates. Dates come back
// in whatever textual form the service emits; the recency filter parses
// them later.
type SearchAdapter struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

func NewSearchAdapter(cfg *model.Config) *SearchAdapter {
	return &SearchAdapter{
		client:   &http.Client{Timeout: cfg.HTTP.Timeout},
		endpoint: cfg.Search.Endpoint,
		apiKey:   cfg.Search.APIKey,
	}
}

type searchResponse struct {
	NewsResults []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
		Date  string `json:"date"`
	} `json:"news_results"`
}

func (a *SearchAdapter) Fetch(ctx context.Context, company string) ([]model.Candidate, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("%w: search API key not configured", ErrSourceUnavailable)
	}

	query := url.Values{}
	query.Set("engine", "google_news")
	query.Set("q", company)
	query.Set("api_key", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search returned status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", ErrSourceUnavailable, err)
	}

	candidates := make([]model.Candidate, 0, len(parsed.NewsResults))
	for _, r := range parsed.NewsResults {
		if r.Title == "" && r.Link == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			Title:   strings.TrimSpace(r.Title),
			URL:     r.Link,
			RawDate: r.Date,
			Origin:  model.OriginSearch,
		})
	}
	return candidates, nil
}
