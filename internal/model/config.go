package model

import "time"

// Config holds the complete runtime configuration for a check run.
type Config struct {
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Extract  ExtractConfig  `yaml:"extract" mapstructure:"extract"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Validate ValidateConfig `yaml:"validate" mapstructure:"validate"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the completion provider used for extraction and
// verification. API keys are injected here at construction time and are
// never read from ambient state by the clients themselves.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds per call
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// SearchConfig configures the web-search service used for evidence retrieval.
type SearchConfig struct {
	APIKey      string  `yaml:"-" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	MaxResults  int     `yaml:"max_results" mapstructure:"max_results"` // K evidence items per claim
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"`         // seconds per call
	Retries     int     `yaml:"retries" mapstructure:"retries"`         // additional attempts on transient failure
	RatePerHost float64 `yaml:"rate_per_host" mapstructure:"rate_per_host"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
}

// ExtractConfig bounds claim extraction.
type ExtractConfig struct {
	MaxClaims        int `yaml:"max_claims" mapstructure:"max_claims"`
	MaxDocumentChars int `yaml:"max_document_chars" mapstructure:"max_document_chars"`
}

// PipelineConfig controls per-claim scheduling.
type PipelineConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // concurrent claim checks
}

// CacheConfig controls search-response caching.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir,omitempty" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ValidateConfig controls optional accessibility probes of cited sources.
type ValidateConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds per probe
	Workers   int    `yaml:"workers" mapstructure:"workers"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 1500,
		},
		Search: SearchConfig{
			BaseURL:     "https://api.tavily.com",
			MaxResults:  5,
			Timeout:     20,
			Retries:     1,
			RatePerHost: 4,
			Burst:       4,
		},
		Extract: ExtractConfig{
			MaxClaims:        25,
			MaxDocumentChars: 8000,
		},
		Pipeline: PipelineConfig{
			Workers: 4,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Validate: ValidateConfig{
			Enabled:   false,
			Timeout:   10,
			Workers:   8,
			UserAgent: "Claimlens/0.1 (+https://github.com/claimlens/claimlens)",
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
