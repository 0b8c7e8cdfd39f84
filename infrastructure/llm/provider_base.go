package llm

import "sync"

// BaseProvider provides common, thread-safe model-name handling for all
// vendor adapters.
type BaseProvider struct {
	mu    sync.RWMutex
	model string
}

// GetModel returns the currently configured model name.
// It is safe for concurrent use.
func (b *BaseProvider) GetModel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

// SetModel updates the model name for subsequent requests.
// It is safe for concurrent use.
func (b *BaseProvider) SetModel(model string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = model
}

// buildStatus assembles the ProviderStatus shared by every adapter.
// Adapters only hold keys they were constructed with, so this never
// touches the network.
func buildStatus(vendor, model string, hasKey bool) ProviderStatus {
	keyStatus := "missing"
	if hasKey {
		keyStatus = "configured"
	}
	return ProviderStatus{
		Configured:   hasKey,
		Provider:     vendor + "/" + model,
		Model:        model,
		APIKeyStatus: keyStatus,
	}
}

// TruncateForDiagnostics shortens raw vendor output for inclusion in error
// messages. 200 characters is enough to see what went wrong without
// flooding logs with a full response.
func TruncateForDiagnostics(content string) string {
	const max = 200
	if len(content) <= max {
		return content
	}
	return content[:max] + "..."
}
