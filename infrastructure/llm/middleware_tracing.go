package llm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracedProvider wraps generation calls in OpenTelemetry spans so slow or
// failing vendor requests show up in distributed traces.
type tracedProvider struct {
	next        Provider
	serviceName string
}

// TracingMiddleware creates middleware that adds a span around each
// generation request.
func TracingMiddleware(serviceName string) Middleware {
	return func(next Provider) Provider {
		return &tracedProvider{
			next:        next,
			serviceName: serviceName,
		}
	}
}

// GenerateJSON executes the request within a trace span carrying provider,
// model, and prompt-size attributes.
func (t *tracedProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (map[string]any, error) {
	tracer := otel.Tracer(t.serviceName)
	ctx, span := tracer.Start(ctx, "llm.generate_json",
		trace.WithAttributes(
			attribute.String("llm.provider", t.next.Status().Provider),
			attribute.String("llm.model", t.next.GetModel()),
			attribute.Int("llm.prompt.system_length", len(systemPrompt)),
			attribute.Int("llm.prompt.user_length", len(userPrompt)),
		),
	)
	defer span.End()

	obj, err := t.next.GenerateJSON(ctx, systemPrompt, userPrompt, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return obj, err
}

// Status reports the wrapped provider's status.
func (t *tracedProvider) Status() ProviderStatus { return t.next.Status() }

// GetModel returns the model name from the wrapped provider.
func (t *tracedProvider) GetModel() string { return t.next.GetModel() }

// SetModel updates the model name in the wrapped provider.
func (t *tracedProvider) SetModel(m string) { t.next.SetModel(m) }
