// Package llm provides a unified interface for generating structured JSON
// from multiple LLM vendors (OpenAI, Anthropic Claude, Google Gemini).
//
// The package normalizes three heterogeneous vendor APIs behind one
// interface: each provider translates a (systemPrompt, userPrompt, options)
// triple into a vendor-specific request, asks the vendor for JSON output in
// whatever dialect it supports, and runs the raw response through a shared
// repair/extraction pass before parsing. Cross-cutting concerns such as
// rate limiting, timeouts, metrics, and tracing are composed through a
// middleware chain so provider code stays free of operational logic.
//
// Basic usage:
//
//	provider, err := llm.NewProvider("openai", llm.ClientConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o",
//	})
//	blueprint, err := provider.GenerateJSON(ctx, systemPrompt, userPrompt, nil)
//
// With middleware:
//
//	provider, err := llm.NewProvider("claude", llm.ClientConfig{
//	    APIKey: key,
//	    Middleware: []llm.Middleware{
//	        llm.RateLimitMiddleware(2, 4),
//	        llm.TimeoutMiddleware(60 * time.Second),
//	    },
//	})
package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider is the common contract every vendor adapter implements.
// GenerateJSON performs exactly one attempt against the vendor API; no
// retries happen inside an adapter. Failures always propagate to the
// caller as a *ProviderError describing the failure kind.
type Provider interface {
	// GenerateJSON sends the system and user prompts to the vendor and
	// returns the parsed JSON object from the response. The opts map
	// accepts "temperature" (float64) and "max_tokens" (int); unknown
	// keys are ignored by adapters that cannot use them.
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (map[string]any, error)

	// Status reports constructor-time state without touching the network.
	Status() ProviderStatus

	// GetModel returns the currently configured model name.
	GetModel() string

	// SetModel updates the model used for subsequent requests.
	SetModel(model string)
}

// ProviderStatus is a synchronous snapshot of adapter configuration.
// Provider carries the "vendor/model" pair so callers can log which
// concrete model a request will hit after any model correction.
type ProviderStatus struct {
	Configured   bool   `json:"configured"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	APIKeyStatus string `json:"apiKeyStatus"`
}

// ClientConfig holds everything needed to construct a vendor adapter.
type ClientConfig struct {
	// APIKey authenticates requests to the vendor.
	APIKey string

	// Model selects the vendor model. Empty means the vendor default.
	Model string

	// BaseURL overrides the vendor endpoint, primarily for tests.
	BaseURL string

	// Timeout bounds each HTTP request. Zero means no client timeout;
	// callers normally add TimeoutMiddleware instead.
	Timeout time.Duration

	// Middleware is applied in order, first entry outermost.
	Middleware []Middleware
}

// Middleware wraps a Provider to add cross-cutting behavior without
// touching vendor-specific code.
type Middleware func(Provider) Provider

// ProviderFactory builds a vendor adapter from configuration.
type ProviderFactory func(ClientConfig) (Provider, error)

// providerFactories maps vendor names to their factories. Providers
// register themselves in init so adding a vendor is a data change for
// callers, not a switch statement.
var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a vendor adapter factory under a name.
func RegisterProviderFactory(vendor string, factory ProviderFactory) {
	providerFactories[vendor] = factory
}

// NewProvider constructs the adapter for the named vendor and applies the
// configured middleware chain.
func NewProvider(vendor string, config ClientConfig) (Provider, error) {
	factory, ok := providerFactories[vendor]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", vendor)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", vendor, err)
	}

	// Apply middleware in reverse order so the first entry is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		provider = config.Middleware[i](provider)
	}

	return provider, nil
}
