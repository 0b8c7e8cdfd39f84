package llm

import (
	"context"
	"time"
)

// timeoutProvider bounds each generation request. Vendor APIs do not
// guarantee bounded latency, so every production chain carries this.
type timeoutProvider struct {
	next    Provider
	timeout time.Duration
}

// TimeoutMiddleware creates middleware that enforces a per-request timeout.
// Expiry surfaces as a network-kind ProviderError via the adapters'
// context-error classification.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next Provider) Provider {
		return &timeoutProvider{
			next:    next,
			timeout: timeout,
		}
	}
}

// GenerateJSON executes the request under a deadline.
func (t *timeoutProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.GenerateJSON(ctx, systemPrompt, userPrompt, opts)
}

// Status reports the wrapped provider's status.
func (t *timeoutProvider) Status() ProviderStatus { return t.next.Status() }

// GetModel returns the model name from the wrapped provider.
func (t *timeoutProvider) GetModel() string { return t.next.GetModel() }

// SetModel updates the model name in the wrapped provider.
func (t *timeoutProvider) SetModel(m string) { t.next.SetModel(m) }
