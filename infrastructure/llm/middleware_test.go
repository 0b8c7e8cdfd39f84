package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type recordingCollector struct {
	mu         sync.Mutex
	histograms []string
	counters   []string
	labels     []map[string]string
}

func (r *recordingCollector) RecordLatency(string, time.Duration, map[string]string) {}

func (r *recordingCollector) RecordCounter(metric string, _ float64, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters = append(r.counters, metric)
	r.labels = append(r.labels, labels)
}

func (r *recordingCollector) RecordGauge(string, float64, map[string]string) {}

func (r *recordingCollector) RecordHistogram(metric string, _ float64, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histograms = append(r.histograms, metric)
}

func TestMetricsMiddleware(t *testing.T) {
	t.Run("success labeled", func(t *testing.T) {
		collector := &recordingCollector{}
		provider := MetricsMiddleware(collector)(&MockProvider{Vendor: "openai"})

		_, err := provider.GenerateJSON(context.Background(), "s", "u", nil)
		require.NoError(t, err)

		require.Len(t, collector.counters, 1)
		assert.Equal(t, "generation_requests_total", collector.counters[0])
		assert.Equal(t, "success", collector.labels[0]["status"])
		assert.Contains(t, collector.histograms, "generation_latency_seconds")
	})

	t.Run("failure carries classified status", func(t *testing.T) {
		collector := &recordingCollector{}
		mock := &MockProvider{
			Vendor: "gemini",
			GenerateJSONFunc: func(context.Context, string, string, map[string]any) (map[string]any, error) {
				return nil, NewProviderError("gemini", ErrorTypeRateLimit, 429, "quota", nil)
			},
		}
		provider := MetricsMiddleware(collector)(mock)

		_, err := provider.GenerateJSON(context.Background(), "s", "u", nil)
		require.Error(t, err)

		require.Len(t, collector.labels, 1)
		assert.Equal(t, "rate_limit", collector.labels[0]["status"])
	})

	t.Run("unclassified error labeled generically", func(t *testing.T) {
		collector := &recordingCollector{}
		mock := &MockProvider{
			GenerateJSONFunc: func(context.Context, string, string, map[string]any) (map[string]any, error) {
				return nil, errors.New("plain failure")
			},
		}
		provider := MetricsMiddleware(collector)(mock)

		_, _ = provider.GenerateJSON(context.Background(), "s", "u", nil)
		require.Len(t, collector.labels, 1)
		assert.Equal(t, "error", collector.labels[0]["status"])
	})
}

func TestTimeoutMiddleware(t *testing.T) {
	mock := &MockProvider{
		GenerateJSONFunc: func(ctx context.Context, _, _ string, _ map[string]any) (map[string]any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	provider := TimeoutMiddleware(10 * time.Millisecond)(mock)

	start := time.Now()
	_, err := provider.GenerateJSON(context.Background(), "s", "u", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRateLimitMiddleware(t *testing.T) {
	mock := &MockProvider{}
	// Burst of 1 at 100 req/s forces each call after the first to wait
	// roughly 10ms for the next token.
	provider := RateLimitMiddleware(rate.Limit(100), 1)(mock)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := provider.GenerateJSON(context.Background(), "s", "u", nil)
		require.NoError(t, err)
	}

	// Two of the three calls must have waited roughly 10ms each.
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	assert.Equal(t, 3, mock.CallCount)
}

func TestMiddleware_DelegatesModelAccessors(t *testing.T) {
	mock := &MockProvider{}
	mock.SetModel("base-model")

	wrapped := TimeoutMiddleware(time.Second)(MetricsMiddleware(nil)(mock))
	assert.Equal(t, "base-model", wrapped.GetModel())

	wrapped.SetModel("updated")
	assert.Equal(t, "updated", mock.GetModel())
}
