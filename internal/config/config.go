// Package config loads service configuration from file and environment
// with sane defaults. Secrets (API keys, the encryption key) come only
// from the environment; the file carries operational tunables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`

	// EncryptionKey is the 64-hex-character AES-256 key for stored
	// credentials, from ENCRYPTION_KEY. Optional; without it stored
	// credentials are ignored and only environment keys resolve.
	EncryptionKey string `mapstructure:"encryption_key" validate:"omitempty,len=64,hexadecimal"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

// LLMConfig holds provider defaults and the generation timeout.
type LLMConfig struct {
	DefaultProvider string        `mapstructure:"default_provider" validate:"required,oneof=openai claude gemini"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"required,min=1s,max=10m"`
}

// RateLimitConfig holds the fixed-window limiter settings for the admin
// model-list endpoint.
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests" validate:"required,min=1"`
	Window      time.Duration `mapstructure:"window" validate:"required"`
}

// CacheConfig holds the model-list cache TTL.
type CacheConfig struct {
	ModelListTTL time.Duration `mapstructure:"model_list_ttl" validate:"required"`
}

// Load reads configuration from an optional config.yaml in the given
// directory, overlaid with environment variables (BLUEPRINT_SERVER_PORT
// and similar), then validates the result. Missing files are fine; the
// defaults describe a working local setup.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("llm.default_provider", "openai")
	v.SetDefault("llm.request_timeout", 60*time.Second)
	v.SetDefault("ratelimit.max_requests", 10)
	v.SetDefault("ratelimit.window", 5*time.Minute)
	v.SetDefault("cache.model_list_ttl", 15*time.Minute)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("BLUEPRINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// ENCRYPTION_KEY is unprefixed for compatibility with the credential
	// tooling that writes it.
	_ = v.BindEnv("encryption_key", "ENCRYPTION_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
