package llm

import (
	"context"
	"sort"
)

// VendorConfig is the static capability record for one supported vendor.
// Adding a vendor means adding an entry here and registering its factory;
// call sites dispatch through this table rather than switching on names.
type VendorConfig struct {
	// EnvVar names the environment variable holding the fallback API key.
	EnvVar string
	// DefaultModel is used when neither credential nor caller names one.
	DefaultModel string
	// ListModels fetches the selectable model catalog. Static for vendors
	// without a usable list endpoint; a live call for Gemini.
	ListModels func(ctx context.Context, apiKey string) ([]ModelDescriptor, error)
	// FallbackModels is the curated list served when ListModels fails.
	FallbackModels func() []ModelDescriptor
}

// Vendors is the closed set of supported providers.
var Vendors = map[string]VendorConfig{
	"openai": {
		EnvVar:       "OPENAI_API_KEY",
		DefaultModel: OpenAIDefaultModel,
		ListModels: func(ctx context.Context, apiKey string) ([]ModelDescriptor, error) {
			// OpenAI's list endpoint requires auth and is dominated by
			// fine-tunes; the curated catalog is authoritative.
			return OpenAIModels(), nil
		},
		FallbackModels: OpenAIModels,
	},
	"claude": {
		EnvVar:       "ANTHROPIC_API_KEY",
		DefaultModel: ClaudeDefaultModel,
		ListModels: func(ctx context.Context, apiKey string) ([]ModelDescriptor, error) {
			return ClaudeModels(), nil
		},
		FallbackModels: ClaudeModels,
	},
	"gemini": {
		EnvVar:         "GOOGLE_API_KEY",
		DefaultModel:   GeminiDefaultModel,
		ListModels:     FetchGeminiModels,
		FallbackModels: GeminiFallbackModels,
	},
}

// IsSupportedVendor reports whether name is a known provider.
func IsSupportedVendor(name string) bool {
	_, ok := Vendors[name]
	return ok
}

// VendorNames returns the supported provider names in sorted order, for
// stable error messages and listings.
func VendorNames() []string {
	names := make([]string, 0, len(Vendors))
	for name := range Vendors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
