package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimitedProvider paces generation requests with a token bucket so one
// busy tenant cannot burn through a vendor quota.
type rateLimitedProvider struct {
	next    Provider
	limiter *rate.Limiter
}

// RateLimitMiddleware creates middleware enforcing a sustained requests-per-
// second limit with a burst allowance on the generation path.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)

	return func(next Provider) Provider {
		return &rateLimitedProvider{
			next:    next,
			limiter: limiter,
		}
	}
}

// GenerateJSON waits for rate limit permission before forwarding.
func (r *rateLimitedProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (map[string]any, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.GenerateJSON(ctx, systemPrompt, userPrompt, opts)
}

// Status reports the wrapped provider's status.
func (r *rateLimitedProvider) Status() ProviderStatus { return r.next.Status() }

// GetModel returns the model name from the wrapped provider.
func (r *rateLimitedProvider) GetModel() string { return r.next.GetModel() }

// SetModel updates the model name in the wrapped provider.
func (r *rateLimitedProvider) SetModel(m string) { r.next.SetModel(m) }
