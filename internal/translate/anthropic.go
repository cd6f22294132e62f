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

// AnthropicTranslator translates with Claude models through the Messages API
type AnthropicTranslator struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropicTranslator creates a new Anthropic translator
func NewAnthropicTranslator(config Config) (*AnthropicTranslator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	model := config.Model
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}

	return &AnthropicTranslator{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: util.NewHTTPClient(timeoutOrDefault(config.Timeout, 2*time.Minute), config.HTTP),
	}, nil
}

// Name returns the provider name
func (p *AnthropicTranslator) Name() string {
	return "anthropic"
}

// Translate sends the batch as one prompt and parses the JSON reply
func (p *AnthropicTranslator) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	prompt, err := BuildPrompt(texts, source, target)
	if err != nil {
		return nil, err
	}

	apiReq := anthropicRequest{
		Model:     p.model,
		MaxTokens: maxOutputTokens(texts),
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	}

	var resp anthropicResponse
	if err := postJSON(ctx, p.httpClient, p.baseURL+"/v1/messages", headers, apiReq, &resp, describeAnthropicError); err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no content in Anthropic response")
	}
	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("Anthropic response truncated at %d tokens", apiReq.MaxTokens)
	}

	return ParseTranslations(resp.Content[0].Text, len(texts))
}

func describeAnthropicError(body []byte) string {
	var apiErr anthropicError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Sprintf("%s: %s", apiErr.Error.Type, apiErr.Error.Message)
	}
	return ""
}

// maxOutputTokens budgets generously for the translated batch plus JSON framing
func maxOutputTokens(texts []string) int {
	chars := 0
	for _, t := range texts {
		chars += len(t)
	}
	budget := chars + 16*len(texts) + 256
	if budget > 8192 {
		budget = 8192
	}
	return budget
}
