// Package ports defines the interfaces through which the application core
// talks to infrastructure: credential storage, secret decryption, and
// metrics. Implementations are injected at composition time so the dispatch
// layer never imports a concrete store and tests can substitute fakes.
package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-blueprint/internal/domain"
)

// CredentialsRepository provides read access to stored provider
// credentials. The backing store lives outside this service; only the
// lookup operations the dispatch layer needs are modeled here.
type CredentialsRepository interface {
	// GetDefaultProvider returns the user's default credential for the
	// given service type ("ai_provider"), or nil when none is stored.
	GetDefaultProvider(ctx context.Context, userID, serviceType string) (*domain.Credential, error)

	// GetCredentials returns every credential the user holds for the
	// given service type.
	GetCredentials(ctx context.Context, userID, serviceType string) ([]domain.Credential, error)
}

// SecretCodec decrypts stored credential material. Abstracting the cipher
// keeps the encryption scheme swappable without touching dispatch logic.
type SecretCodec interface {
	// Decrypt recovers the plaintext API key from ciphertext, IV, and
	// authentication tag.
	Decrypt(ciphertext, iv, tag []byte) (string, error)
}

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations integrate with observability backends such as
// Prometheus.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
