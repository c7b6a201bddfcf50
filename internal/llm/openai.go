package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
)

// maxPromptHTML caps the page markup embedded into locator prompts.
const maxPromptHTML = 48_000

// maxPromptText caps the article body embedded into summary prompts.
const maxPromptText = 12_000

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client *openai.Client
	pages  *http.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		pages:  &http.Client{Timeout: 10 * time.Second},
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	// Simple check: try to list models (lightweight API call)
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Summarize generates a structured summary using the Chat Completions API
func (p *OpenAIProvider) Summarize(ctx context.Context, req SummarizeRequest) (*model.Summary, error) {
	text := req.Text
	if len(text) > maxPromptText {
		text = text[:maxPromptText]
	}
	prompt := buildSummaryPrompt(SummarizeRequest{
		Company: req.Company,
		Title:   req.Title,
		URL:     req.URL,
		Date:    req.Date,
		Text:    text,
	})

	raw, err := p.complete(ctx, "You are a precise news analyst. You respond only with valid JSON.", prompt)
	if err != nil {
		return nil, err
	}

	var summary model.Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, fmt.Errorf("decoding summary response: %w", err)
	}
	if summary.Title == "" {
		summary.Title = req.Title
	}
	if summary.URL == "" {
		summary.URL = req.URL
	}
	if summary.PublicationDate == "" {
		summary.PublicationDate = req.Date
	}
	return &summary, nil
}

// FindNewsTab fetches the homepage and asks the model for its news section
func (p *OpenAIProvider) FindNewsTab(ctx context.Context, websiteURL, company string) (string, error) {
	html, err := p.fetchPage(ctx, websiteURL)
	if err != nil {
		return "", err
	}

	raw, err := p.complete(ctx, "You extract navigation links from HTML. You respond only with valid JSON.",
		buildNewsTabPrompt(websiteURL, company, html))
	if err != nil {
		return "", err
	}

	var parsed struct {
		NewsURL string `json:"news_url"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", fmt.Errorf("decoding news tab response: %w", err)
	}
	return strings.TrimSpace(parsed.NewsURL), nil
}

// FindArticles fetches the news page and asks the model for article links
func (p *OpenAIProvider) FindArticles(ctx context.Context, newsURL, company string) ([]model.Candidate, error) {
	html, err := p.fetchPage(ctx, newsURL)
	if err != nil {
		return nil, err
	}

	raw, err := p.complete(ctx, "You extract article links from HTML. You respond only with valid JSON.",
		buildArticlesPrompt(newsURL, company, html))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Articles []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
			Date  string `json:"date"`
		} `json:"articles"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("decoding articles response: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			Title:   strings.TrimSpace(a.Title),
			URL:     a.URL,
			RawDate: a.Date,
			Origin:  model.OriginCrawl,
		})
	}
	return candidates, nil
}

// complete runs one chat completion in JSON mode and returns the raw content.
func (p *OpenAIProvider) complete(ctx context.Context, system, prompt string) (string, error) {
	modelName := p.config.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) fetchPage(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.pages.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPromptHTML))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
