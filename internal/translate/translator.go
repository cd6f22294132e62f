// Package translate machine-translates claim texts in batches.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/fevercs/internal/model"
)

// ErrCountMismatch is returned when a service answers with a different number of strings
var ErrCountMismatch = errors.New("translation count mismatch")

// Translator translates a batch of strings, keeping their order
type Translator interface {
	// Name returns the provider name
	Name() string

	// Translate returns exactly one translation per input text
	Translate(ctx context.Context, texts []string, source, target string) ([]string, error)
}

// Config holds translator configuration
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	HTTP     model.HTTPConfig
}

// ConfigFromModel converts the application configuration
func ConfigFromModel(cfg model.TranslateConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
		HTTP:     httpCfg,
	}
}

// APIKeyEnv names the environment variable holding the key of a provider
func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "google":
		return "GOOGLE_TRANSLATE_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	case "anthropic", "claude":
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// NewTranslator creates a translator for the configured provider
func NewTranslator(ctx context.Context, config Config) (Translator, error) {
	switch strings.ToLower(config.Provider) {
	case "google":
		return NewGoogleTranslator(config)

	case "openai":
		return NewOpenAITranslator(config)

	case "gemini":
		return NewGeminiTranslator(ctx, config)

	case "anthropic", "claude":
		return NewAnthropicTranslator(config)

	case "ollama":
		return NewOllamaTranslator(config)

	default:
		return nil, fmt.Errorf("unknown translation provider: %q (supported: google, openai, gemini, anthropic, ollama)", config.Provider)
	}
}

func checkCount(got, want int) error {
	if got != want {
		return fmt.Errorf("%w: sent %d, received %d", ErrCountMismatch, want, got)
	}
	return nil
}

func timeoutOrDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
