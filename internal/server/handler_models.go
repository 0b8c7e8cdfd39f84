package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahrav/go-blueprint/infrastructure/llm"
)

// ModelFetcher fetches the selectable model list for a provider. The
// production fetcher dispatches through the vendor registry; tests inject
// counting fakes.
type ModelFetcher func(ctx context.Context, provider string) ([]llm.ModelDescriptor, error)

// RegistryModelFetcher builds the production fetcher: it resolves the
// provider's API key from the environment via env and calls the vendor's
// list function.
func RegistryModelFetcher(env func(string) string) ModelFetcher {
	return func(ctx context.Context, provider string) ([]llm.ModelDescriptor, error) {
		cfg, ok := llm.Vendors[provider]
		if !ok {
			return nil, fmt.Errorf("unknown provider: %s", provider)
		}
		return cfg.ListModels(ctx, env(cfg.EnvVar))
	}
}

// ModelsHandler serves the admin model-refresh endpoint, combining the
// fixed-window limiter, the shared model cache, and the vendor fetchers.
type ModelsHandler struct {
	limiter *FixedWindowLimiter
	cache   *ModelCache
	fetch   ModelFetcher
	logger  *slog.Logger
}

// NewModelsHandler constructs the handler.
func NewModelsHandler(limiter *FixedWindowLimiter, cache *ModelCache, fetch ModelFetcher, logger *slog.Logger) *ModelsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelsHandler{limiter: limiter, cache: cache, fetch: fetch, logger: logger}
}

type modelsRequest struct {
	Provider     string `json:"provider"`
	ForceRefresh bool   `json:"forceRefresh"`
}

// Refresh handles POST /api/admin/models.
func (h *ModelsHandler) Refresh(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("model refresh panicked", "panic", r)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"details": fmt.Sprintf("%v", r),
			})
		}
	}()

	decision := h.limiter.Check(clientIdentifier(c.Request))
	if !decision.Allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "Rate limit exceeded. Try again later.",
			"resetTime": decision.ResetTime.UnixMilli(),
		})
		return
	}

	// Decode manually so malformed bodies produce the documented message
	// instead of a decoder-specific one.
	var req modelsRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}

	if req.Provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider is required"})
		return
	}

	if !llm.IsSupportedVendor(req.Provider) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Unsupported provider: %s. Valid providers: openai, gemini, claude", req.Provider),
		})
		return
	}

	if !req.ForceRefresh {
		if models, cachedAt, ok := h.cache.Get(req.Provider); ok {
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"provider":  req.Provider,
				"models":    models,
				"cached":    true,
				"cachedAt":  cachedAt.UTC().Format(time.RFC3339),
				"remaining": decision.Remaining,
			})
			return
		}
	}

	models, err := h.fetch(c.Request.Context(), req.Provider)
	if err != nil {
		// Degrade rather than fail: report the vendor error alongside a
		// usable hardcoded list. A stale cache entry is never substituted.
		h.logger.Warn("model list fetch failed, serving fallback",
			"provider", req.Provider,
			"error", err)
		c.JSON(http.StatusOK, gin.H{
			"success":        false,
			"provider":       req.Provider,
			"error":          err.Error(),
			"fallbackModels": llm.Vendors[req.Provider].FallbackModels(),
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	h.cache.Set(req.Provider, models)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"provider":  req.Provider,
		"models":    models,
		"cached":    false,
		"fetchedAt": time.Now().UTC().Format(time.RFC3339),
		"remaining": decision.Remaining,
	})
}

// clientIdentifier derives the rate-limit bucket for a request from proxy
// headers. Requests with none of the headers share one bucket, a known
// coarse-grained behavior for unidentified clients.
func clientIdentifier(r *http.Request) string {
	for _, header := range []string{"X-Forwarded-For", "X-Real-IP", "X-Client-IP"} {
		if v := r.Header.Get(header); v != "" {
			return v
		}
	}
	return "unknown-client"
}
