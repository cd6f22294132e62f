package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/fevercs/internal/util"
	"github.com/ppiankov/fevercs/internal/worker"
)

// googleMaxSegments is the Cloud Translation v2 limit of strings per request
const googleMaxSegments = 128

// GoogleTranslator uses the Cloud Translation v2 REST API
type GoogleTranslator struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type googleRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type googleResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

type googleError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewGoogleTranslator creates a new Cloud Translation client
func NewGoogleTranslator(config Config) (*GoogleTranslator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Google Translate API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://translation.googleapis.com"
	}

	return &GoogleTranslator{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: util.NewHTTPClient(timeoutOrDefault(config.Timeout, 60*time.Second), config.HTTP),
	}, nil
}

// Name returns the provider name
func (g *GoogleTranslator) Name() string {
	return "google"
}

// Translate sends the texts in chunks of at most 128 segments
func (g *GoogleTranslator) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	out := make([]string, 0, len(texts))
	endpoint := g.baseURL + "/language/translate/v2"
	// the key travels in a header so transport errors, which quote the URL, never carry it
	headers := map[string]string{"X-Goog-Api-Key": g.apiKey}

	for _, chunk := range worker.Batches(texts, googleMaxSegments) {
		var resp googleResponse
		req := googleRequest{Q: chunk, Source: source, Target: target, Format: "text"}
		if err := postJSON(ctx, g.httpClient, endpoint, headers, req, &resp, describeGoogleError); err != nil {
			return nil, fmt.Errorf("google translate: %w", err)
		}
		if err := checkCount(len(resp.Data.Translations), len(chunk)); err != nil {
			return nil, err
		}
		for _, t := range resp.Data.Translations {
			out = append(out, t.TranslatedText)
		}
	}

	return out, nil
}

func describeGoogleError(body []byte) string {
	var apiErr googleError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return ""
}
