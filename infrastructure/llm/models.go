package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ModelDescriptor describes one selectable vendor model. Descriptors are
// read-only reference data: sourced from vendor APIs or the curated tables
// below, cached in memory, never persisted.
type ModelDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GeminiListBaseURL is the endpoint used for live Gemini model discovery.
// Overridable for tests.
var GeminiListBaseURL = "https://generativelanguage.googleapis.com"

// OpenAIModels returns the curated OpenAI model catalog. The vendor's list
// endpoint requires authentication and returns hundreds of fine-tune and
// legacy entries, so a maintained static list is used instead.
func OpenAIModels() []ModelDescriptor {
	return []ModelDescriptor{
		{ID: "gpt-4o", Name: "GPT-4o", Description: "Flagship multimodal model, best quality for structured output"},
		{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Fast and inexpensive, good default for blueprints"},
		{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Description: "Previous-generation flagship with 128k context"},
		{ID: "gpt-4.1", Name: "GPT-4.1", Description: "Latest GPT-4 series with improved instruction following"},
		{ID: "gpt-4.1-mini", Name: "GPT-4.1 Mini", Description: "Smaller GPT-4.1 variant balancing cost and quality"},
		{ID: "o4-mini", Name: "o4 Mini", Description: "Reasoning model tuned for complex planning tasks"},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "Legacy model, lowest cost"},
	}
}

// ClaudeModels returns the curated Anthropic model catalog. Anthropic has
// no public unauthenticated list endpoint, so the list is maintained here.
func ClaudeModels() []ModelDescriptor {
	return []ModelDescriptor{
		{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Description: "Latest Sonnet, best balance of quality and latency"},
		{ID: "claude-opus-4-20250514", Name: "Claude Opus 4", Description: "Highest quality for complex blueprint generation"},
		{ID: "claude-3-7-sonnet-20250219", Name: "Claude 3.7 Sonnet", Description: "Extended thinking support"},
		{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", Description: "Previous-generation Sonnet"},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", Description: "Fast and inexpensive"},
	}
}

// GeminiFallbackModels returns the curated Gemini catalog used when the
// live list endpoint cannot be reached.
func GeminiFallbackModels() []ModelDescriptor {
	return []ModelDescriptor{
		{ID: "gemini-2.5-pro-preview-06-05", Name: "Gemini 2.5 Pro Preview", Description: "Most capable Gemini model for deep planning"},
		{ID: "gemini-2.5-flash-preview-05-20", Name: "Gemini 2.5 Flash Preview", Description: "Fast adaptive-thinking model"},
		{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Description: "Stable general-purpose model"},
		{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", Description: "Long-context model, 1M tokens"},
		{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Description: "Low-latency, low-cost"},
	}
}

// geminiModelCorrections rewrites superseded or alias identifiers that the
// Gemini API rejects or silently redirects. Applied before every request;
// corrected identifiers map through unchanged because they appear in the
// known-valid set.
var geminiModelCorrections = map[string]string{
	"gemini-2.5-pro":          "gemini-2.5-pro-preview-06-05",
	"gemini-2.5-flash":        "gemini-2.5-flash-preview-05-20",
	"gemini-1.5-pro-latest":   "gemini-1.5-pro",
	"gemini-1.5-flash-latest": "gemini-1.5-flash",
	"gemini-pro":              "gemini-1.5-pro",
}

// knownGeminiModels is the set of identifiers accepted without a warning.
var knownGeminiModels = map[string]struct{}{
	"gemini-2.5-pro-preview-06-05":   {},
	"gemini-2.5-flash-preview-05-20": {},
	"gemini-2.0-flash":               {},
	"gemini-2.0-flash-lite":          {},
	"gemini-1.5-pro":                 {},
	"gemini-1.5-flash":               {},
}

// CorrectGeminiModel maps known-superseded Gemini identifiers to their
// current replacements. Unmapped names pass through unchanged; a warning is
// logged when the result is not in the known-valid set, since the request
// will likely 404.
func CorrectGeminiModel(model string) string {
	if corrected, ok := geminiModelCorrections[model]; ok {
		return corrected
	}
	if _, ok := knownGeminiModels[model]; !ok {
		slog.Warn("gemini model not in known-valid set, passing through",
			slog.String("model", model))
	}
	return model
}

// SuggestModel returns the catalog entry closest to the requested model by
// edit distance, used to embed an actionable hint in 404 errors. Returns
// empty when the vendor has no catalog or nothing is reasonably close.
func SuggestModel(vendor, model string) string {
	var catalog []ModelDescriptor
	switch vendor {
	case "openai":
		catalog = OpenAIModels()
	case "claude":
		catalog = ClaudeModels()
	case "gemini":
		catalog = GeminiFallbackModels()
	default:
		return ""
	}

	best := ""
	bestDistance := -1
	for _, m := range catalog {
		d := levenshtein.ComputeDistance(model, m.ID)
		if bestDistance == -1 || d < bestDistance {
			best = m.ID
			bestDistance = d
		}
	}

	// A distance wider than the model name itself means nothing is close
	// enough to be a useful suggestion.
	if bestDistance > len(model) {
		return ""
	}
	return best
}

// geminiListResponse mirrors the relevant fields of the Gemini
// /v1beta/models response.
type geminiListResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		DisplayName                string   `json:"displayName"`
		Description                string   `json:"description"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

var titleCaser = cases.Title(language.English)

// FetchGeminiModels retrieves the live Gemini model list, filtered to
// text-generation-capable models. Embedding, vision, and imaging variants
// are excluded because they cannot produce blueprint JSON. Callers are
// expected to fall back to GeminiFallbackModels on error.
func FetchGeminiModels(ctx context.Context, apiKey string) ([]ModelDescriptor, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	url := fmt.Sprintf("%s/v1beta/models?key=%s", GeminiListBaseURL, apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build model list request: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini model list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gemini model list returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var listResp geminiListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode gemini model list: %w", err)
	}

	models := make([]ModelDescriptor, 0, len(listResp.Models))
	for _, m := range listResp.Models {
		id := strings.TrimPrefix(m.Name, "models/")
		if !isTextGenerationModel(id, m.SupportedGenerationMethods) {
			continue
		}

		name := m.DisplayName
		if name == "" {
			name = FriendlyModelName(id)
		}

		models = append(models, ModelDescriptor{
			ID:          id,
			Name:        name,
			Description: m.Description,
		})
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("gemini model list contained no text-generation models")
	}

	return models, nil
}

// isTextGenerationModel filters out models that cannot serve blueprint
// generation: embeddings, vision-only, imaging, and anything without the
// generateContent method.
func isTextGenerationModel(id string, methods []string) bool {
	supportsGenerate := false
	for _, m := range methods {
		if m == "generateContent" {
			supportsGenerate = true
			break
		}
	}
	if !supportsGenerate {
		return false
	}

	lower := strings.ToLower(id)
	for _, excluded := range []string{"embedding", "aqa", "vision", "imagen", "image-generation", "tts"} {
		if strings.Contains(lower, excluded) {
			return false
		}
	}

	return true
}

// FriendlyModelName turns a raw identifier like "gemini-2.5-flash" into a
// display name like "Gemini 2.5 Flash".
func FriendlyModelName(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "-", " "))
}
