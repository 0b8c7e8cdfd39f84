package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahrav/go-blueprint/infrastructure/llm"
	"github.com/ahrav/go-blueprint/internal/application"
	"github.com/ahrav/go-blueprint/internal/config"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Service *application.BlueprintService
	Fetch   ModelFetcher
	Env     func(string) string
	Logger  *slog.Logger
}

// New builds the HTTP server with all routes registered.
func New(cfg *config.Config, deps Deps) *http.Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), CORS())

	limiter := NewFixedWindowLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	cache := NewModelCache(cfg.Cache.ModelListTTL)

	models := NewModelsHandler(limiter, cache, deps.Fetch, logger)
	blueprints := NewBlueprintsHandler(deps.Service, logger)

	router.POST("/api/admin/models", models.Refresh)
	router.POST("/api/blueprints/generate", blueprints.Generate)

	env := deps.Env
	if env == nil {
		env = func(string) string { return "" }
	}
	router.GET("/health", func(c *gin.Context) {
		providers := make(map[string]string, len(llm.Vendors))
		for _, name := range llm.VendorNames() {
			if env(llm.Vendors[name].EnvVar) != "" {
				providers[name] = "configured"
			} else {
				providers[name] = "missing"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"providers": providers,
			"time":      time.Now().UTC().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
}
