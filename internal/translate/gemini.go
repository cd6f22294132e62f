package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/fevercs/internal/util"
	"google.golang.org/genai"
)

// GeminiTranslator translates with Gemini models
type GeminiTranslator struct {
	client *genai.Client
	model  string
}

// NewGeminiTranslator creates a Gemini API client
func NewGeminiTranslator(ctx context.Context, config Config) (*GeminiTranslator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: util.NewHTTPClient(timeoutOrDefault(config.Timeout, 2*time.Minute), config.HTTP),
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiTranslator{client: client, model: model}, nil
}

// Name returns the provider name
func (p *GeminiTranslator) Name() string {
	return "gemini"
}

// Translate requests a JSON reply and parses it
func (p *GeminiTranslator) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	prompt, err := BuildPrompt(texts, source, target)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no content in Gemini response")
	}

	return ParseTranslations(text, len(texts))
}
