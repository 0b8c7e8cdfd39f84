// Command server runs the blueprint generation API: provider-backed
// blueprint generation, the admin model-list endpoint, health, and
// Prometheus metrics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahrav/go-blueprint/infrastructure/llm"
	infmw "github.com/ahrav/go-blueprint/infrastructure/middleware"
	"github.com/ahrav/go-blueprint/internal/application"
	"github.com/ahrav/go-blueprint/internal/config"
	"github.com/ahrav/go-blueprint/internal/ports"
	"github.com/ahrav/go-blueprint/internal/secrets"
	"github.com/ahrav/go-blueprint/internal/server"
)

func main() {
	// Missing .env is fine; production sets real environment variables.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load("")
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var codec ports.SecretCodec
	if cfg.EncryptionKey != "" {
		codec, err = secrets.FromHexKey(cfg.EncryptionKey)
		if err != nil {
			logger.Error("invalid encryption key", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("ENCRYPTION_KEY not set, stored credentials disabled")
		codec = noopCodec{}
	}

	collector := infmw.NewPrometheusMetrics(prometheus.DefaultRegisterer)

	chain := []llm.Middleware{
		llm.TimeoutMiddleware(cfg.LLM.RequestTimeout),
		llm.MetricsMiddleware(collector),
		llm.TracingMiddleware("blueprint-service"),
	}

	// The credentials store is an external collaborator wired in by the
	// host deployment. Without one, resolution falls through to
	// environment API keys.
	resolver := application.NewResolver(nil, codec, os.Getenv, cfg.LLM.DefaultProvider, chain, logger)
	service := application.NewBlueprintService(resolver, logger)

	srv := server.New(cfg, server.Deps{
		Service: service,
		Fetch:   server.RegistryModelFetcher(os.Getenv),
		Env:     os.Getenv,
		Logger:  logger,
	})

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}

// noopCodec stands in when no encryption key is configured. Stored
// credentials cannot be decrypted, so resolution always falls through to
// environment keys.
type noopCodec struct{}

func (noopCodec) Decrypt(_, _, _ []byte) (string, error) {
	return "", errors.New("credential decryption disabled: ENCRYPTION_KEY not set")
}
