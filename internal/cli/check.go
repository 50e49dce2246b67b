package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON       string
	outMD         string
	timeout       time.Duration
	llmProvider   string
	llmModel      string
	maxClaims     int
	maxResults    int
	workers       int
	noCache       bool
	cacheDir      string
	noFooter      bool
	validateLinks bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check a single document and generate a fact-check report",
	Long: `Check analyzes a single document (PDF or plain text) to:
- Extract specific, verifiable factual claims
- Gather web evidence for each claim
- Classify each claim as Verified, Inaccurate, False, or Unverifiable
- Generate a report with explanations and cited sources

Example:
  claimlens check report.pdf
  claimlens check report.pdf --json report.json --md report.md
  claimlens check report.pdf --llm-provider ollama --llm-model llama3.1:8b`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Run flags
	checkCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall check timeout (increase for documents with many claims)")
	checkCmd.Flags().IntVar(&maxClaims, "max-claims", 25, "maximum claims to extract")
	checkCmd.Flags().IntVar(&maxResults, "evidence", 5, "evidence items to gather per claim")
	checkCmd.Flags().IntVar(&workers, "workers", 4, "concurrent claim checks")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable search-response cache")
	checkCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist search cache to this directory")
	checkCmd.Flags().BoolVar(&validateLinks, "validate-sources", false, "probe cited source URLs for accessibility")

	// LLM flags
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", path)
		fmt.Fprintf(os.Stderr, "LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	report, err := p.CheckFile(ctx, path)
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	// A failed run still renders a report describing what went wrong.
	if renderErr := renderOutputs(renderer, report); renderErr != nil {
		return fmt.Errorf("render failed: %w", renderErr)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	return nil
}

// renderOutputs writes the configured report files and prints the summary
func renderOutputs(renderer *pipeline.Renderer, report *model.Report) error {
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(report, os.Stderr)
	return nil
}

// buildConfig assembles the run configuration from defaults, flags, and
// environment. API keys come only from the environment and are injected
// into the service clients at construction.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.Extract.MaxClaims = maxClaims
	cfg.Search.MaxResults = maxResults
	cfg.Pipeline.Workers = workers
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Validate.Enabled = validateLinks
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	cfg.Search.APIKey = os.Getenv("TAVILY_API_KEY")
	if cfg.Search.APIKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY environment variable not set")
	}

	return cfg, nil
}
