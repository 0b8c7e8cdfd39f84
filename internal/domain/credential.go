// Package domain holds the core types of the blueprint service: stored
// provider credentials, orchestration pattern definitions, and the
// generated blueprint document itself.
package domain

// ServiceTypeAIProvider is the service type under which LLM provider
// credentials are stored.
const ServiceTypeAIProvider = "ai_provider"

// Credential is a stored, encrypted provider credential. The API key is
// held as AES-GCM ciphertext alongside the IV and authentication tag
// produced at encryption time.
type Credential struct {
	// ServiceName identifies the provider: "openai", "claude", or "gemini".
	ServiceName string

	// APIKeyCiphertext is the encrypted API key.
	APIKeyCiphertext []byte

	// EncryptionIV is the nonce used for this ciphertext.
	EncryptionIV []byte

	// AuthTag is the GCM authentication tag.
	AuthTag []byte

	// Model optionally pins a model for this credential. Empty means the
	// provider default.
	Model string

	// IsDefault marks the credential selected when the user has several.
	IsDefault bool
}
