package llm

import "context"

// MockProvider is a Provider implementation for testing middleware and
// callers without network access.
type MockProvider struct {
	BaseProvider
	// GenerateJSONFunc injects custom behavior. When nil a fixed success
	// object is returned.
	GenerateJSONFunc func(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (map[string]any, error)
	// CallCount tracks GenerateJSON invocations.
	CallCount int
	// Vendor is reported in Status; defaults to "mock".
	Vendor string
}

// GenerateJSON implements the Provider interface.
func (m *MockProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, opts map[string]any) (map[string]any, error) {
	m.CallCount++
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, systemPrompt, userPrompt, opts)
	}
	return map[string]any{"ok": true}, nil
}

// Status implements the Provider interface.
func (m *MockProvider) Status() ProviderStatus {
	vendor := m.Vendor
	if vendor == "" {
		vendor = "mock"
	}
	return buildStatus(vendor, m.GetModel(), true)
}
