package translate

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const systemPrompt = "You are a professional translator of encyclopedic claims. You translate faithfully, keep named entities, and answer with JSON only."

// LanguageName returns the English name of a language code, or the code itself
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Languages(language.English).Name(tag); name != "" {
		return name
	}
	return code
}

// BuildPrompt asks a language model for a JSON object with one translation per text
func BuildPrompt(texts []string, source, target string) (string, error) {
	payload, err := json.Marshal(texts)
	if err != nil {
		return "", fmt.Errorf("marshal texts: %w", err)
	}

	return fmt.Sprintf(`Translate every string of the JSON array below from %s to %s.

Rules:
1. Answer with a JSON object of the form {"translations": [...]}.
2. The array must contain exactly %d strings, in the same order as the input.
3. Translate each string independently; do not merge, split, explain or comment.

Input:
%s`, LanguageName(source), LanguageName(target), len(texts), payload), nil
}

// ParseTranslations extracts the translations from a model reply. Both the
// {"translations": [...]} object and a bare array are accepted, optionally in a code fence.
func ParseTranslations(reply string, want int) ([]string, error) {
	text := strings.TrimSpace(reply)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var out []string
	switch {
	case strings.HasPrefix(text, "{"):
		var obj struct {
			Translations []string `json:"translations"`
		}
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			return nil, fmt.Errorf("parse translations: %w", err)
		}
		out = obj.Translations
	case strings.HasPrefix(text, "["):
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return nil, fmt.Errorf("parse translations: %w", err)
		}
	default:
		return nil, fmt.Errorf("parse translations: reply is not JSON: %.60q", text)
	}

	if err := checkCount(len(out), want); err != nil {
		return nil, err
	}
	return out, nil
}
