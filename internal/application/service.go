package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ahrav/go-blueprint/infrastructure/llm"
	"github.com/ahrav/go-blueprint/internal/domain"
)

// ProviderResolver selects the provider used to serve a request. Satisfied
// by *Resolver; an interface so tests can inject a canned provider.
type ProviderResolver interface {
	Resolve(ctx context.Context, userID string) (llm.Provider, string, error)
}

// GenerateRequest carries the inputs for one blueprint generation.
type GenerateRequest struct {
	UserID         string
	Pattern        string
	Objective      string
	Industry       string
	CompanyProfile string
}

// GenerateResult is the outcome of a generation: the parsed blueprint,
// any compliance violations found, and which provider served it.
type GenerateResult struct {
	Blueprint  *domain.Blueprint
	Violations []string
	Provider   string
	Model      string
}

// BlueprintService generates transformation blueprints through whichever
// provider resolves for the requesting user.
type BlueprintService struct {
	resolver ProviderResolver
	logger   *slog.Logger
}

// NewBlueprintService constructs the service.
func NewBlueprintService(resolver ProviderResolver, logger *slog.Logger) *BlueprintService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlueprintService{resolver: resolver, logger: logger}
}

// Generate resolves a provider, builds the pattern prompts, runs one
// generation attempt, and validates the result against the pattern
// definition. Compliance violations are reported in the result rather
// than failing the call; the generation itself is never retried here.
func (s *BlueprintService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if req.Objective == "" {
		return nil, fmt.Errorf("business objective is required")
	}

	def, err := domain.LookupPattern(req.Pattern)
	if err != nil {
		return nil, err
	}

	provider, vendor, err := s.resolver.Resolve(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	systemPrompt, userPrompt := BuildPrompts(vendor, def, req.Objective, req.Industry, req.CompanyProfile)

	obj, err := provider.GenerateJSON(ctx, systemPrompt, userPrompt, nil)
	if err != nil {
		s.logger.Error("blueprint generation failed",
			"provider", vendor,
			"model", provider.GetModel(),
			"pattern", def.Name,
			"error", err)
		return nil, err
	}

	blueprint, err := decodeBlueprint(obj)
	if err != nil {
		return nil, err
	}

	violations := domain.ValidateCompliance(blueprint, def.Name)
	if len(violations) > 0 {
		s.logger.Warn("generated blueprint has compliance violations",
			"provider", vendor,
			"pattern", def.Name,
			"violations", violations)
	}

	return &GenerateResult{
		Blueprint:  blueprint,
		Violations: violations,
		Provider:   vendor,
		Model:      provider.GetModel(),
	}, nil
}

// decodeBlueprint converts the provider's generic JSON object into the
// typed blueprint via a marshal round trip, tolerating extra fields.
func decodeBlueprint(obj map[string]any) (*domain.Blueprint, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode generated object: %w", err)
	}
	var blueprint domain.Blueprint
	if err := json.Unmarshal(raw, &blueprint); err != nil {
		return nil, fmt.Errorf("generated object does not match blueprint shape: %w", err)
	}
	return &blueprint, nil
}
