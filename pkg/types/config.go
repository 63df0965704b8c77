// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pdfhunter/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// MatcherConfig holds settings for the rule-based matcher.
type MatcherConfig struct {
	// MinConfidence is the threshold below which matches are kept as
	// evidence but never selected as a field's best value (default 0.5).
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`
}

// LLMConfig holds settings for the language-model extractor.
type LLMConfig struct {
	// Provider selects the backend: "claude" or "gemini".
	Provider string `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "claude-3-haiku-20240307").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTextLength caps the text sent per extraction call (default 4000).
	MaxTextLength int `json:"max_text_length" yaml:"max_text_length"`
}

// OCRConfig holds settings for page rendering passed to the external
// recognizer.
type OCRConfig struct {
	// LowDPI is used for header strips and expansion scans (default 150).
	LowDPI int `json:"low_dpi" yaml:"low_dpi"`

	// HighDPI is used for full-page scans of scanned PDFs (default 300).
	HighDPI int `json:"high_dpi" yaml:"high_dpi"`
}

// ExpansionConfig holds settings for the expansion agent.
type ExpansionConfig struct {
	// MaxIterations bounds the agent loop (default 2).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
}

// ScoringConfig holds the status thresholds for the full scorer.
type ScoringConfig struct {
	// ConfirmedThreshold is the minimum score for confirmed status
	// (default 0.75).
	ConfirmedThreshold float64 `json:"confirmed_threshold" yaml:"confirmed_threshold"`

	// ReviewThreshold is the minimum score for needs_review status
	// (default 0.40).
	ReviewThreshold float64 `json:"review_threshold" yaml:"review_threshold"`
}

// EnrichConfig holds settings for the web-lookup enrichment stage.
type EnrichConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enabled controls whether the lookup runs at all.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Email is sent to OpenAlex as the polite-pool mailto parameter.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// StoreConfig holds settings for record persistence.
type StoreConfig struct {
	// DataDir is the base directory for the record database
	// (contains records.db).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Matcher   MatcherConfig   `json:"matcher" yaml:"matcher"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	OCR       OCRConfig       `json:"ocr" yaml:"ocr"`
	Expansion ExpansionConfig `json:"expansion" yaml:"expansion"`
	Scoring   ScoringConfig   `json:"scoring" yaml:"scoring"`
	Enrich    EnrichConfig    `json:"enrich" yaml:"enrich"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
