package model

import "time"

// Config is the complete fevercs configuration
type Config struct {
	Wiki      WikiConfig      `yaml:"wiki" mapstructure:"wiki"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Translate TranslateConfig `yaml:"translate" mapstructure:"translate"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Score     ScoreConfig     `yaml:"score" mapstructure:"score"`
}

// WikiConfig configures the MediaWiki cross-language link lookup
type WikiConfig struct {
	APIURL            string        `yaml:"api_url" mapstructure:"api_url"` // {lang} is replaced by the source language
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	BatchSize         int           `yaml:"batch_size" mapstructure:"batch_size"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig configures the on-disk response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"` // 0 keeps entries forever
	Refresh   bool          `yaml:"refresh" mapstructure:"refresh"`   // drop cached entries and look up again
}

// TranslateConfig configures claim translation
type TranslateConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // google, openai, gemini, anthropic, ollama
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	BatchSize int           `yaml:"batch_size" mapstructure:"batch_size"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// HTTPConfig holds proxy settings shared by every HTTP client
type HTTPConfig struct {
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// OutputConfig names the artifacts of a localize run, relative to Dir
type OutputConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	Kept      string `yaml:"kept" mapstructure:"kept"` // {lang} is replaced by the target language
	Lost      string `yaml:"lost" mapstructure:"lost"`
	Mapping   string `yaml:"mapping" mapstructure:"mapping"`
	Responses string `yaml:"responses,omitempty" mapstructure:"responses"` // Empty disables the dump
	Verbose   bool   `yaml:"-" mapstructure:"-"`
}

// ScoreConfig configures the FEVER scorer
type ScoreConfig struct {
	MaxEvidence int `yaml:"max_evidence" mapstructure:"max_evidence"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Wiki: WikiConfig{
			APIURL:            "https://{lang}.wikipedia.org/w/api.php",
			UserAgent:         "fevercs/0.1 (+https://github.com/ppiankov/fevercs)",
			BatchSize:         10,
			Timeout:           30 * time.Second,
			MaxBodyBytes:      10_000_000,
			RequestsPerSecond: 5,
			Burst:             1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "cache",
			MemoryTTL: time.Hour,
		},
		Translate: TranslateConfig{
			Provider:  "google",
			BatchSize: 200,
			Timeout:   2 * time.Minute,
		},
		Output: OutputConfig{
			Dir:     ".",
			Kept:    "{lang}.jsonl",
			Lost:    "lost.jsonl",
			Mapping: "mapping.json",
		},
		Score: ScoreConfig{
			MaxEvidence: 5,
		},
	}
}
