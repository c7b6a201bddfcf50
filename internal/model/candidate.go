package model

import (
	"net/url"
	"strings"
	"time"
)

// Origin identifies which source adapter produced a candidate.
type Origin string

const (
	OriginCrawl  Origin = "crawl"  // company's own news section
	OriginSearch Origin = "search" // external news search service
)

// Candidate is a discovered, not-yet-finalized news item moving through the
// curation pipeline. Candidates are never persisted directly; the store
// consumes summaries built from the ranked set.
type Candidate struct {
	Title string `json:"title"`
	URL   string `json:"url"`

	// RawDate is the free text found near the link (crawl path) or the
	// search service's structured date string. Consumed by date
	// normalization and kept only for diagnostics.
	RawDate string `json:"raw_date,omitempty"`

	// PublishedAt is the canonical publication date. Zero until
	// normalization succeeds; once set it is never in the future.
	PublishedAt time.Time `json:"publication_date,omitzero"`

	// Content is the full article body. Empty means "not fetched yet",
	// not "empty article".
	Content string `json:"content,omitempty"`

	// Score is the relevance score in [0,1]. 1.0 is reserved for
	// candidates from an industry's trusted sources.
	Score float64 `json:"relevance_score"`

	Origin Origin `json:"origin,omitempty"`
}

// SourceDomain returns the host component of the candidate URL, or "" when
// the URL does not parse.
func (c *Candidate) SourceDomain() string {
	parsed, err := url.Parse(strings.TrimSpace(c.URL))
	if err != nil {
		return ""
	}
	return parsed.Host
}

// HasContent reports whether the article body was already fetched.
func (c *Candidate) HasContent() bool {
	return c.Content != ""
}

// Summary is the per-article output of the summarization collaborator and the
// unit the persistence layer stores.
type Summary struct {
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	Author          string   `json:"author"`
	PublicationDate string   `json:"publication_date"`
	Summary         string   `json:"summary"`
	MainTopics      []string `json:"main_topics"`
}
