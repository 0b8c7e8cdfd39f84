// Package application wires the domain and infrastructure layers into the
// blueprint generation use case: resolving which provider to call for a
// user, building pattern prompts, and validating the generated document.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahrav/go-blueprint/infrastructure/llm"
	"github.com/ahrav/go-blueprint/internal/domain"
	"github.com/ahrav/go-blueprint/internal/ports"
)

// ErrNoProviderConfigured is returned when neither a stored credential nor
// an environment API key yields a usable provider. It is a terminal
// configuration error; callers surface it to the user rather than retry.
var ErrNoProviderConfigured = errors.New("no provider configured: add a credential or set a provider API key")

// Resolver selects and constructs the LLM provider for a user's request.
// Resolution order: the user's stored default credential, then the
// configured default vendor's environment API key, then failure.
type Resolver struct {
	repo          ports.CredentialsRepository
	codec         ports.SecretCodec
	env           func(string) string
	defaultVendor string
	middleware    []llm.Middleware
	logger        *slog.Logger
}

// NewResolver constructs a Resolver. The repository and codec are injected
// so the credentials store and cipher stay swappable; env is normally
// os.Getenv. The middleware chain is attached to every provider built.
func NewResolver(
	repo ports.CredentialsRepository,
	codec ports.SecretCodec,
	env func(string) string,
	defaultVendor string,
	middleware []llm.Middleware,
	logger *slog.Logger,
) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		repo:          repo,
		codec:         codec,
		env:           env,
		defaultVendor: defaultVendor,
		middleware:    middleware,
		logger:        logger,
	}
}

// Resolve returns a ready provider for the user along with the vendor name
// it resolved to. A stored credential that fails to decrypt or to build an
// adapter is logged and skipped rather than failing the request, since the
// environment fallback may still serve it.
func (r *Resolver) Resolve(ctx context.Context, userID string) (llm.Provider, string, error) {
	if cred, err := r.storedCredential(ctx, userID); err == nil && cred != nil {
		apiKey, derr := r.codec.Decrypt(cred.APIKeyCiphertext, cred.EncryptionIV, cred.AuthTag)
		if derr != nil {
			r.logger.Warn("stored credential decryption failed, falling back to environment",
				"user_id", userID,
				"provider", cred.ServiceName,
				"error", derr)
		} else if provider, perr := r.buildProvider(cred.ServiceName, apiKey, cred.Model); perr != nil {
			r.logger.Warn("stored credential provider init failed, falling back to environment",
				"user_id", userID,
				"provider", cred.ServiceName,
				"error", perr)
		} else {
			return provider, cred.ServiceName, nil
		}
	} else if err != nil {
		r.logger.Warn("credential lookup failed, falling back to environment",
			"user_id", userID,
			"error", err)
	}

	vendor := r.defaultVendor
	cfg, ok := llm.Vendors[vendor]
	if !ok {
		return nil, "", fmt.Errorf("default provider %q is not supported", vendor)
	}

	if apiKey := r.env(cfg.EnvVar); apiKey != "" {
		provider, err := r.buildProvider(vendor, apiKey, "")
		if err != nil {
			return nil, "", err
		}
		return provider, vendor, nil
	}

	return nil, "", ErrNoProviderConfigured
}

func (r *Resolver) storedCredential(ctx context.Context, userID string) (*domain.Credential, error) {
	if r.repo == nil || userID == "" {
		return nil, nil
	}
	return r.repo.GetDefaultProvider(ctx, userID, domain.ServiceTypeAIProvider)
}

func (r *Resolver) buildProvider(vendor, apiKey, model string) (llm.Provider, error) {
	provider, err := llm.NewProvider(vendor, llm.ClientConfig{
		APIKey:     apiKey,
		Model:      model,
		Middleware: r.middleware,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s provider: %w", vendor, err)
	}
	return provider, nil
}
