// Package middleware provides infrastructure implementations of the
// application's cross-cutting ports, currently the Prometheus-backed
// metrics collector.
package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics implements ports.MetricsCollector on Prometheus
// primitives. Metric vectors are created lazily per metric name with a
// fixed label schema matching what the generation middleware emits.
type PrometheusMetrics struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	latency    *prometheus.HistogramVec
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

var metricLabels = []string{"provider", "model", "status"}

// NewPrometheusMetrics creates a collector registered against the given
// registerer. Pass prometheus.DefaultRegisterer for the process registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		registerer: reg,
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "operation_latency_seconds",
			Help:    "Latency of named operations.",
			Buckets: prometheus.DefBuckets,
		}, append([]string{"operation"}, metricLabels...)),
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

// RecordLatency records the execution time of an operation.
func (p *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	values := append([]string{operation}, labelValues(labels)...)
	p.latency.WithLabelValues(values...).Observe(duration.Seconds())
}

// RecordCounter increments a counter metric.
func (p *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	p.mu.Lock()
	vec, ok := p.counters[metric]
	if !ok {
		vec = promauto.With(p.registerer).NewCounterVec(prometheus.CounterOpts{
			Name: metric,
			Help: "Counter metric " + metric + ".",
		}, metricLabels)
		p.counters[metric] = vec
	}
	p.mu.Unlock()
	vec.WithLabelValues(labelValues(labels)...).Add(value)
}

// RecordGauge sets the current value of a gauge metric.
func (p *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	p.mu.Lock()
	vec, ok := p.gauges[metric]
	if !ok {
		vec = promauto.With(p.registerer).NewGaugeVec(prometheus.GaugeOpts{
			Name: metric,
			Help: "Gauge metric " + metric + ".",
		}, metricLabels)
		p.gauges[metric] = vec
	}
	p.mu.Unlock()
	vec.WithLabelValues(labelValues(labels)...).Set(value)
}

// RecordHistogram records a value in a histogram.
func (p *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	p.mu.Lock()
	vec, ok := p.histograms[metric]
	if !ok {
		vec = promauto.With(p.registerer).NewHistogramVec(prometheus.HistogramOpts{
			Name:    metric,
			Help:    "Histogram metric " + metric + ".",
			Buckets: prometheus.DefBuckets,
		}, metricLabels)
		p.histograms[metric] = vec
	}
	p.mu.Unlock()
	vec.WithLabelValues(labelValues(labels)...).Observe(value)
}

func labelValues(labels map[string]string) []string {
	values := make([]string, len(metricLabels))
	for i, name := range metricLabels {
		values[i] = labels[name]
	}
	return values
}
