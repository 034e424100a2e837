package model

import "time"

// Config is the full runtime configuration for medqc.
type Config struct {
	Knowledge   KnowledgeConfig   `yaml:"knowledge"`
	Score       ScoreConfig       `yaml:"score"`
	Matcher     MatcherConfig     `yaml:"matcher"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	LLM         LLMConfig         `yaml:"llm"`
	Log         LogConfig         `yaml:"log"`
	Output      OutputConfig      `yaml:"output"`
}

// KnowledgeConfig locates the knowledge base on disk.
type KnowledgeConfig struct {
	Dir   string `yaml:"dir"`   // directory holding terms/typos/synonyms/rules files
	Watch bool   `yaml:"watch"` // rebuild and swap the snapshot on file changes
}

// ScoreConfig parameterizes the score aggregator.
type ScoreConfig struct {
	Weights                SeverityWeights `yaml:"weights"`
	QualificationThreshold float64         `yaml:"qualification_threshold"`
}

// MatcherConfig tunes the symptom matcher.
type MatcherConfig struct {
	// NegationWindow is how many runes before a match are scanned for a
	// negation marker.
	NegationWindow int `yaml:"negation_window"`
	// NegationMarkers override the built-in marker list when non-empty.
	NegationMarkers []string `yaml:"negation_markers,omitempty"`
}

// CacheConfig controls the verdict cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// ConcurrencyConfig controls the batch worker pool.
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// LLMConfig configures optional remediation advice. Advice never affects the
// verdict or the score.
type LLMConfig struct {
	Provider          string  `yaml:"provider"` // "openai" or "" (disabled)
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"api_key,omitempty"`
	BaseURL           string  `yaml:"base_url,omitempty"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	MaxTokens         int     `yaml:"max_tokens"`
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults. The qualification threshold
// and severity weights follow the hospital QC convention: critical findings
// cost 10 points, major 5, minor 2, and 80 is the pass mark.
func DefaultConfig() *Config {
	return &Config{
		Knowledge: KnowledgeConfig{
			Dir:   "knowledge",
			Watch: false,
		},
		Score: ScoreConfig{
			Weights: SeverityWeights{
				Minor:    2,
				Major:    5,
				Critical: 10,
			},
			QualificationThreshold: 80,
		},
		Matcher: MatcherConfig{
			NegationWindow: 5,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 8,
		},
		LLM: LLMConfig{
			Provider:          "",
			TimeoutSeconds:    30,
			MaxTokens:         800,
			RequestsPerMinute: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
