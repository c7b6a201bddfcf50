package model

import "time"

// Config is the immutable configuration object handed to the pipeline at
// start. Loaded once per process; nothing mutates it at runtime.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Crawl       CrawlConfig       `yaml:"crawl"`
	Search      SearchConfig      `yaml:"search"`
	Recency     RecencyConfig     `yaml:"recency"`
	Ranking     RankingConfig     `yaml:"ranking"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	LLM         LLMConfig         `yaml:"llm"`
	Database    DatabaseConfig    `yaml:"database"`
	Server      ServerConfig      `yaml:"server"`
	Output      OutputConfig      `yaml:"output"`

	// Industries maps a lower-cased industry id to its curation profile.
	Industries map[string]IndustryProfile `yaml:"industries"`

	// ExcludedSources is the global exclusion list. It takes precedence
	// over any industry's trusted sources.
	ExcludedSources []string `yaml:"excluded_sources"`
}

// HTTPConfig controls outbound fetches.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// CrawlConfig controls the owned-site adapter.
type CrawlConfig struct {
	MaxArticles     int           `yaml:"max_articles"`
	MinTitleLength  int           `yaml:"min_title_length"`
	PolitenessDelay time.Duration `yaml:"politeness_delay"`

	// NavKeywords are matched against anchor hrefs and text when looking
	// for the news section of a company site.
	NavKeywords []string `yaml:"nav_keywords"`
}

// SearchConfig controls the external news search adapter.
type SearchConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// RecencyConfig bounds candidate age.
type RecencyConfig struct {
	MaxAgeDays int `yaml:"max_age_days"`
}

// RankingConfig bounds and optionally gates the final output.
type RankingConfig struct {
	Cap int `yaml:"cap"`

	// MinScore is a gate that is disabled by default: candidates below it
	// are only dropped when ThresholdEnabled is set. Zero-scored candidates
	// otherwise stay in and simply rank last.
	MinScore         float64 `yaml:"min_score"`
	ThresholdEnabled bool    `yaml:"threshold_enabled"`
}

// ConcurrencyConfig sizes the fetch worker pool and its per-domain throttle.
type ConcurrencyConfig struct {
	FetchWorkers int     `yaml:"fetch_workers"`
	DomainRPS    float64 `yaml:"domain_rps"`
	DomainBurst  int     `yaml:"domain_burst"`
}

// CacheConfig controls the fetched-body cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// LLMConfig configures the summarization collaborator.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// DatabaseConfig holds the Postgres DSN for the persistence collaborator.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// OutputConfig controls CLI verbosity.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "CompanyNews/0.1 (+https://github.com/KacperZiemski-fixtra/company-news-api)",
			MaxBodyBytes: 2_000_000,
		},
		Crawl: CrawlConfig{
			MaxArticles:     15,
			MinTitleLength:  20,
			PolitenessDelay: time.Second,
			NavKeywords:     []string{"news", "whats-new", "press", "media-centre", "media-", "media/"},
		},
		Search: SearchConfig{
			Endpoint: "https://serpapi.com/search.json",
		},
		Recency: RecencyConfig{
			MaxAgeDays: 730,
		},
		Ranking: RankingConfig{
			Cap:              9,
			MinScore:         0.10,
			ThresholdEnabled: false,
		},
		Concurrency: ConcurrencyConfig{
			FetchWorkers: 4,
			DomainRPS:    1.0,
			DomainBurst:  1,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Industries:      defaultIndustries(),
		ExcludedSources: defaultExcludedSources(),
	}
}
