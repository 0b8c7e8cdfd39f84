package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// OpenAIDefaultModel is used when no model is configured.
	OpenAIDefaultModel = "gpt-4o-mini"
)

func init() {
	RegisterProviderFactory("openai", newOpenAIProvider)
}

// openAIProvider implements the Provider interface for OpenAI's chat
// completions API. OpenAI has native JSON mode, so the request carries
// response_format json_object and no prompt-level JSON coercion is needed.
type openAIProvider struct {
	BaseProvider
	client          *openai.Client
	hasKey          bool
	errorClassifier *ErrorClassifier
}

func newOpenAIProvider(config ClientConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = OpenAIDefaultModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)

	if config.BaseURL != "" {
		validatedURL, err := ValidateBaseURL(config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid BaseURL: %w", err)
		}
		clientConfig.BaseURL = validatedURL
	}

	if config.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{
			Timeout: ValidateTimeout(config.Timeout),
		}
	}

	return &openAIProvider{
		BaseProvider:    BaseProvider{model: model},
		client:          openai.NewClientWithConfig(clientConfig),
		hasKey:          true,
		errorClassifier: &ErrorClassifier{Provider: "openai"},
	}, nil
}

// GenerateJSON sends one chat-completion request with JSON mode enabled and
// parses the response through the shared repair pipeline.
func (p *openAIProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (map[string]any, error) {
	options := ParseRequestOptions(opts, p.GetModel())

	req := openai.ChatCompletionRequest{
		Model: options.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	if options.Temperature != nil {
		req.Temperature = float32(ClampFloat64(*options.Temperature, 0.0, 2.0))
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, p.handleError(err, options.Model)
	}

	if len(resp.Choices) == 0 {
		return nil, NewProviderError("openai", ErrorTypeNoContent, 0,
			"response contained no choices", ErrNoResponseChoice)
	}

	choice := resp.Choices[0]
	if choice.Message.Content == "" {
		return nil, NewProviderError("openai", ErrorTypeNoContent, 0,
			fmt.Sprintf("response contained no text (finish reason: %s)", choice.FinishReason),
			ErrNoResponseChoice)
	}

	obj, err := ParseJSONObject(choice.Message.Content)
	if err != nil {
		return nil, p.errorClassifier.ClassifyParseFailure(choice.Message.Content, err)
	}

	return obj, nil
}

// Status reports constructor-time configuration without a network call.
func (p *openAIProvider) Status() ProviderStatus {
	return buildStatus("openai", p.GetModel(), p.hasKey)
}

func (p *openAIProvider) handleError(err error, model string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = "unknown error"
		}

		if apiErr.HTTPStatusCode == http.StatusNotFound {
			return p.errorClassifier.ClassifyModelNotFound(model, message, err)
		}

		return p.errorClassifier.ClassifyHTTPError(apiErr.HTTPStatusCode, model, message, err)
	}

	return NewProviderError("openai", ErrorTypeNetwork, 0,
		"failed to generate JSON from openai", err)
}
