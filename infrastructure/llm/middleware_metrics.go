package llm

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/go-blueprint/internal/ports"
)

// metricsProvider records request latency and outcome per provider/model
// for operational monitoring of the generation path.
type metricsProvider struct {
	next      Provider
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that collects generation metrics
// through the injected collector.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next Provider) Provider {
		return &metricsProvider{
			next:      next,
			collector: collector,
		}
	}
}

// GenerateJSON executes the request and records latency, request count,
// and a classified status label.
func (m *metricsProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (map[string]any, error) {
	start := time.Now()
	obj, err := m.next.GenerateJSON(ctx, systemPrompt, userPrompt, opts)

	status := m.next.Status()
	labels := map[string]string{
		"provider": status.Provider,
		"model":    m.next.GetModel(),
		"status":   statusLabel(err),
	}

	if m.collector != nil {
		m.collector.RecordHistogram("generation_latency_seconds", time.Since(start).Seconds(), labels)
		m.collector.RecordCounter("generation_requests_total", 1, labels)
	}

	return obj, err
}

func statusLabel(err error) string {
	if err == nil {
		return "success"
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		if s := provErr.typeString(); s != "" {
			return s
		}
	}
	return "error"
}

// Status reports the wrapped provider's status.
func (m *metricsProvider) Status() ProviderStatus { return m.next.Status() }

// GetModel returns the model name from the wrapped provider.
func (m *metricsProvider) GetModel() string { return m.next.GetModel() }

// SetModel updates the model name in the wrapped provider.
func (m *metricsProvider) SetModel(model string) { m.next.SetModel(model) }
