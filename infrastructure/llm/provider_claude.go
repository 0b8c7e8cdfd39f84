package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// ClaudeDefaultModel is used when no model is configured.
	ClaudeDefaultModel = "claude-sonnet-4-20250514"

	// claudeJSONInstruction is appended to the user prompt because the
	// Messages API has no native JSON response mode.
	claudeJSONInstruction = "\n\nRespond ONLY with a valid JSON object. No prose, no Markdown fences, no explanation before or after the JSON."
)

func init() {
	RegisterProviderFactory("claude", newClaudeProvider)
}

// claudeProvider implements the Provider interface for Anthropic's Messages
// API. Claude lacks a JSON response mode, so the adapter appends an explicit
// JSON-only instruction and leans on the shared repair pass for the fenced
// output Claude still produces occasionally.
type claudeProvider struct {
	BaseProvider
	client          anthropic.Client
	hasKey          bool
	errorClassifier *ErrorClassifier
}

func newClaudeProvider(config ClientConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = ClaudeDefaultModel
	}

	// The SDK retries 429s and 5xx by default; retry policy belongs to
	// callers, so each request makes exactly one attempt.
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		validatedURL, err := ValidateBaseURL(config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid BaseURL: %w", err)
		}
		opts = append(opts, option.WithBaseURL(validatedURL))
	}

	return &claudeProvider{
		BaseProvider:    BaseProvider{model: model},
		client:          anthropic.NewClient(opts...),
		hasKey:          true,
		errorClassifier: &ErrorClassifier{Provider: "claude"},
	}, nil
}

// GenerateJSON sends one Messages request and parses the response through
// the shared repair pipeline.
func (p *claudeProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (map[string]any, error) {
	options := ParseRequestOptions(opts, p.GetModel())

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(options.Model),
		MaxTokens: int64(options.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt + claudeJSONInstruction)),
		},
	}

	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(ClampFloat64(*options.Temperature, 0.0, 1.0))
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, p.handleError(err, options.Model)
	}

	var responseText strings.Builder
	for _, block := range message.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			responseText.WriteString(content.Text)
		}
	}

	raw := responseText.String()
	if raw == "" {
		return nil, NewProviderError("claude", ErrorTypeNoContent, 0,
			fmt.Sprintf("response contained no text (stop reason: %v)", message.StopReason),
			ErrNoResponseChoice)
	}

	obj, err := ParseJSONObject(raw)
	if err != nil {
		return nil, p.errorClassifier.ClassifyParseFailure(raw, err)
	}

	return obj, nil
}

// Status reports constructor-time configuration without a network call.
func (p *claudeProvider) Status() ProviderStatus {
	return buildStatus("claude", p.GetModel(), p.hasKey)
}

func (p *claudeProvider) handleError(err error, model string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Error()

		if apiErr.StatusCode == http.StatusNotFound {
			return p.errorClassifier.ClassifyModelNotFound(model, message, err)
		}

		return p.errorClassifier.ClassifyHTTPError(apiErr.StatusCode, model, message, err)
	}

	return NewProviderError("claude", ErrorTypeNetwork, 0,
		"failed to generate JSON from claude", err)
}
