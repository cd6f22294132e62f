package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/fevercs/internal/util"
	"github.com/sashabaranov/go-openai"
)

// OpenAITranslator translates with OpenAI chat models
type OpenAITranslator struct {
	client *openai.Client
	model  string
}

// NewOpenAITranslator creates a new OpenAI translator
func NewOpenAITranslator(config Config) (*OpenAITranslator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = util.NewHTTPClient(timeoutOrDefault(config.Timeout, 2*time.Minute), config.HTTP)

	model := config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAITranslator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Name returns the provider name
func (p *OpenAITranslator) Name() string {
	return "openai"
}

// Translate asks the model for a JSON object with the translations
func (p *OpenAITranslator) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	prompt, err := BuildPrompt(texts, source, target)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return ParseTranslations(resp.Choices[0].Message.Content, len(texts))
}
