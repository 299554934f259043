package model

import "time"

// Config is the complete Verilex configuration, loadable from YAML
type Config struct {
	Scoring     ScoringConfig     `yaml:"scoring"`
	Extractor   ExtractorConfig   `yaml:"extractor"`
	Rules       RulesConfig       `yaml:"rules"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Server      ServerConfig      `yaml:"server"`
	Output      OutputConfig      `yaml:"output"`
}

// ScoringConfig holds the scoring weights and urgency thresholds. The defaults
// are the calibrated constants; changing them changes what counts as
// reviewable risk, so treat overrides with care. The threshold semantics
// (overdue/7/30/90 day bands, review above 75) are relied on by tests.
type ScoringConfig struct {
	UrgencyWeight  float64 `yaml:"urgency_weight"`  // time criticality, 0-40 band
	SeverityWeight float64 `yaml:"severity_weight"` // obligation impact, 0-30 band
	PenaltyWeight  float64 `yaml:"penalty_weight"`  // regulatory consequence, 0-30 band

	CriticalDays int `yaml:"critical_days"` // renewal within this many days is critical
	HighDays     int `yaml:"high_days"`
	MediumDays   int `yaml:"medium_days"`

	ReviewThreshold float64 `yaml:"review_threshold"` // scores above this suspend for review
}

// ExtractorConfig selects and configures the fact extraction capability
type ExtractorConfig struct {
	Provider string `yaml:"provider"` // "openai", "heuristic", "" (heuristic)
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`

	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`

	// RequestsPerSecond rate-limits calls to the provider across a batch
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// RulesConfig points the rule store at an optional YAML override file
type RulesConfig struct {
	File string `yaml:"file"` // empty means built-in rule sets
}

// CacheConfig controls extractor response caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig bounds parallel document processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// ServerConfig configures the HTTP review/verification API
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// OutputConfig controls CLI report rendering
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose"`
	StateDir      string `yaml:"state_dir"` // where suspended records are persisted
	IncludeFooter bool   `yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			UrgencyWeight:   40,
			SeverityWeight:  30,
			PenaltyWeight:   30,
			CriticalDays:    7,
			HighDays:        30,
			MediumDays:      90,
			ReviewThreshold: 75,
		},
		Extractor: ExtractorConfig{
			Provider:          "",
			Timeout:           30 * time.Second,
			MaxTokens:         2000,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // default resolved to ~/.verilex/cache at load time
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
