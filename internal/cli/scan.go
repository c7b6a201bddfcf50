package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/logging"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/pipeline"
)

var (
	website    string
	industry   string
	outJSON    string
	timeout    time.Duration
	userAgent  string
	maxBytes   int64
	noCache    bool
	llmEnabled bool
	llmModel   string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <company>",
	Short: "Curate recent news for a company",
	Long: `Scan gathers news candidates for a company from its website and the
configured search service, then filters and ranks them:
- Crawl the company site's news section for dated article links
- Query the external news search service
- Drop unrelated, stale and duplicate candidates
- Score each source's trust and keyword relevance for the industry
- Rank and keep the best few

Example:
  companynews scan "Acme Corp" --website https://acme.example --industry fintech
  companynews scan "Acme Corp" --industry banking --llm --json articles.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&website, "website", "", "company website to crawl (skipped when empty)")
	scanCmd.Flags().StringVar(&industry, "industry", "", "industry to score relevance against (required)")
	_ = scanCmd.MarkFlagRequired("industry")

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "", "write results to this JSON path instead of stdout")

	// HTTP flags
	scanCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall scan timeout")
	scanCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	scanCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetches)")

	// LLM flags
	scanCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summaries and crawl fallbacks")
	scanCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runScan(cmd *cobra.Command, args []string) error {
	company := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig()
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.Cache.Enabled = !noCache

	if llmEnabled {
		if cfg.LLM.Provider == "" {
			cfg.LLM.Provider = "openai"
		}
		cfg.LLM.Model = llmModel
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	} else {
		cfg.LLM.Provider = ""
	}

	logger := logging.New(logLevel())
	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s (industry: %s)\n", company, industry)
		if website != "" {
			fmt.Fprintf(os.Stderr, "Website: %s\n", website)
		}
		fmt.Fprintln(os.Stderr)
	}

	result := p.Run(ctx, pipeline.Request{
		Company:  company,
		Website:  website,
		Industry: industry,
	})

	out := map[string]any{
		"company":    company,
		"industry":   industry,
		"candidates": result.Candidates,
	}
	if len(result.Summaries) > 0 {
		out["articles"] = result.Summaries
	}
	if verbose {
		out["skips"] = result.Skips
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	if outJSON != "" {
		if err := os.WriteFile(outJSON, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outJSON, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d candidates to %s\n", len(result.Candidates), outJSON)
		return nil
	}

	fmt.Println(string(data))
	return nil
}
