package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const (
	// GeminiDefaultModel is used when no model is configured.
	GeminiDefaultModel = "gemini-2.0-flash"
)

func init() {
	RegisterProviderFactory("gemini", newGeminiProvider)
}

// geminiProvider implements the Provider interface for Google's Gemini API.
// Gemini accepts a response MIME type for native JSON output but has no
// separate system role, so the system prompt is folded into the user turn.
// Known-superseded model identifiers are rewritten before every request.
type geminiProvider struct {
	BaseProvider
	client          *genai.Client
	hasKey          bool
	errorClassifier *ErrorClassifier
}

func newGeminiProvider(config ClientConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = GeminiDefaultModel
	}
	model = CorrectGeminiModel(model)

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}

	if config.BaseURL != "" {
		validatedURL, err := ValidateBaseURL(config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid BaseURL: %w", err)
		}
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: validatedURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiProvider{
		BaseProvider:    BaseProvider{model: model},
		client:          client,
		hasKey:          true,
		errorClassifier: &ErrorClassifier{Provider: "gemini"},
	}, nil
}

// GenerateJSON sends one generateContent request with a JSON response MIME
// type and parses the result through the shared repair pipeline.
func (p *geminiProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (map[string]any, error) {
	options := ParseRequestOptions(opts, p.GetModel())
	model := CorrectGeminiModel(options.Model)

	// Gemini has no separate system role; fold the system prompt into a
	// single structured user turn.
	prompt := userPrompt
	if systemPrompt != "" {
		prompt = fmt.Sprintf("System: %s\n\nUser: %s", systemPrompt, userPrompt)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, p.buildGenerationConfig(options))
	if err != nil {
		return nil, p.handleError(err, model)
	}

	raw := resp.Text()
	if raw == "" {
		if blocked, reason := safetyBlocked(resp); blocked {
			return nil, NewProviderError("gemini", ErrorTypeContentPolicy, 0,
				fmt.Sprintf("request blocked by safety filters (%s) - try rephrasing the business objective", reason),
				ErrEmptyResponse)
		}
		return nil, NewProviderError("gemini", ErrorTypeNoContent, 0,
			fmt.Sprintf("response contained no text (%s)", describeResponseShape(resp)),
			ErrEmptyResponse)
	}

	obj, err := ParseJSONObject(raw)
	if err != nil {
		return nil, p.errorClassifier.ClassifyParseFailure(raw, err)
	}

	return obj, nil
}

// Status reports constructor-time configuration without a network call.
func (p *geminiProvider) Status() ProviderStatus {
	return buildStatus("gemini", p.GetModel(), p.hasKey)
}

// buildGenerationConfig assembles the Gemini request configuration,
// including the JSON response MIME type and explicit safety thresholds.
// Thresholds are set to block only high-probability harm so that ordinary
// business vocabulary ("disruption", "aggressive targets") is not filtered.
func (p *geminiProvider) buildGenerationConfig(options RequestOptions) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
		},
	}

	if options.Temperature != nil {
		temp := ClampFloat64(*options.Temperature, 0.0, 2.0)
		config.Temperature = genai.Ptr(float32(temp))
	}

	if options.MaxTokens > 0 {
		if options.MaxTokens > math.MaxInt32 {
			config.MaxOutputTokens = math.MaxInt32
		} else {
			config.MaxOutputTokens = int32(options.MaxTokens)
		}
	}

	return config
}

func (p *geminiProvider) handleError(err error, model string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" && len(apiErr.Errors) > 0 {
			message = apiErr.Errors[0].Message
		}

		if containsContentPolicyError(apiErr) {
			return NewProviderError("gemini", ErrorTypeContentPolicy, apiErr.Code,
				"request blocked by safety filters - try rephrasing the business objective", err)
		}

		if apiErr.Code == http.StatusNotFound {
			return p.errorClassifier.ClassifyModelNotFound(model, message, err)
		}

		return p.errorClassifier.ClassifyHTTPError(apiErr.Code, model, message, err)
	}

	return NewProviderError("gemini", ErrorTypeNetwork, 0,
		"failed to generate JSON from gemini", err)
}

// safetyBlocked reports whether an otherwise-empty response was emptied by
// the vendor's content filter, and which stage tripped it.
func safetyBlocked(resp *genai.GenerateContentResponse) (bool, string) {
	if resp == nil {
		return false, ""
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return true, "prompt blocked: " + string(resp.PromptFeedback.BlockReason)
	}

	for _, cand := range resp.Candidates {
		if strings.EqualFold(string(cand.FinishReason), "safety") {
			return true, "candidate finished with reason SAFETY"
		}
	}

	return false, ""
}

// describeResponseShape summarizes an empty response for diagnostics.
func describeResponseShape(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return "nil response"
	}
	if len(resp.Candidates) == 0 {
		return "no candidates"
	}
	return fmt.Sprintf("%d candidates, first finish reason: %s",
		len(resp.Candidates), resp.Candidates[0].FinishReason)
}

// containsContentPolicyError checks a Google API error for content policy
// markers in either the message or the structured error reasons.
func containsContentPolicyError(apiErr *googleapi.Error) bool {
	if apiErr.Message != "" {
		lower := strings.ToLower(apiErr.Message)
		if strings.Contains(lower, "safety") ||
			strings.Contains(lower, "policy") ||
			strings.Contains(lower, "blocked") {
			return true
		}
	}

	for _, e := range apiErr.Errors {
		if e.Reason == "SAFETY" || e.Reason == "BLOCKED" {
			return true
		}
	}

	return false
}
