package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/fevercs/internal/util"
)

// OllamaTranslator translates with a local Ollama model
type OllamaTranslator struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Format  string        `json:"format,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaTranslator creates a new Ollama translator
func NewOllamaTranslator(config Config) (*OllamaTranslator, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &OllamaTranslator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   config.Model,
		// local models can be slow
		httpClient: util.NewHTTPClient(timeoutOrDefault(config.Timeout, 5*time.Minute), config.HTTP),
	}, nil
}

// Name returns the provider name
func (p *OllamaTranslator) Name() string {
	return "ollama"
}

// Translate asks the model for JSON output and parses it
func (p *OllamaTranslator) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	prompt, err := BuildPrompt(texts, source, target)
	if err != nil {
		return nil, err
	}

	apiReq := ollamaRequest{
		Model:   p.model,
		Prompt:  prompt,
		System:  systemPrompt,
		Format:  "json",
		Stream:  false,
		Options: ollamaOptions{Temperature: 0.1},
	}

	var resp ollamaResponse
	if err := postJSON(ctx, p.httpClient, p.baseURL+"/api/generate", nil, apiReq, &resp, describeOllamaError); err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	return ParseTranslations(resp.Response, len(texts))
}

func describeOllamaError(body []byte) string {
	var apiErr ollamaError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	return ""
}
