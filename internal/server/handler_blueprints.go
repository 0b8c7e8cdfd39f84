package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahrav/go-blueprint/infrastructure/llm"
	"github.com/ahrav/go-blueprint/internal/application"
)

// BlueprintsHandler serves blueprint generation requests.
type BlueprintsHandler struct {
	service *application.BlueprintService
	logger  *slog.Logger
}

// NewBlueprintsHandler constructs the handler.
func NewBlueprintsHandler(service *application.BlueprintService, logger *slog.Logger) *BlueprintsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlueprintsHandler{service: service, logger: logger}
}

type generateRequest struct {
	Pattern        string `json:"pattern"`
	Objective      string `json:"businessObjective"`
	Industry       string `json:"industry"`
	CompanyProfile string `json:"companyProfile"`
}

// Generate handles POST /api/blueprints/generate.
func (h *BlueprintsHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}
	if req.Objective == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "businessObjective is required"})
		return
	}
	if req.Pattern == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pattern is required"})
		return
	}

	result, err := h.service.Generate(c.Request.Context(), application.GenerateRequest{
		UserID:         c.GetHeader("X-User-ID"),
		Pattern:        req.Pattern,
		Objective:      req.Objective,
		Industry:       req.Industry,
		CompanyProfile: req.CompanyProfile,
	})
	if err != nil {
		status, message := classifyGenerateError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"provider":   result.Provider,
		"model":      result.Model,
		"blueprint":  result.Blueprint,
		"violations": result.Violations,
	})
}

// classifyGenerateError maps generation failures to HTTP statuses while
// keeping enough vendor context for the caller to pick a remediation.
func classifyGenerateError(err error) (int, string) {
	if errors.Is(err, application.ErrNoProviderConfigured) {
		return http.StatusPreconditionFailed, err.Error()
	}

	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		switch provErr.Type {
		case llm.ErrorTypeAuthentication:
			return http.StatusBadGateway, err.Error()
		case llm.ErrorTypeRateLimit:
			return http.StatusTooManyRequests, err.Error()
		case llm.ErrorTypeBadRequest, llm.ErrorTypeNotFound:
			return http.StatusBadRequest, err.Error()
		case llm.ErrorTypeContentPolicy:
			return http.StatusUnprocessableEntity, err.Error()
		}
		return http.StatusBadGateway, err.Error()
	}

	return http.StatusInternalServerError, err.Error()
}
