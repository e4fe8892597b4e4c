// Package config provides configuration loading and validation for the CLI, server and worker.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "RESUME_MATCHER_"

// ConfigPathEnv names the environment variable holding a config file path
const ConfigPathEnv = EnvPrefix + "CONFIG"

// Config holds process configuration. Values are layered: defaults, then an optional
// YAML or JSON file, then RESUME_MATCHER_* environment variables.
type Config struct {
	// Server
	Port               int `koanf:"port" json:"port,omitempty"`
	RateLimitPerMinute int `koanf:"rate_limit_per_minute" json:"rate_limit_per_minute,omitempty"`

	// Storage
	DatabaseURL string `koanf:"database_url" json:"database_url,omitempty"` // PostgreSQL connection URL

	// Similarity
	GeminiAPIKey        string `koanf:"gemini_api_key" json:"gemini_api_key,omitempty"`
	EmbeddingModel      string `koanf:"embedding_model" json:"embedding_model,omitempty"`
	UseGeminiEmbeddings bool   `koanf:"use_gemini_embeddings" json:"use_gemini_embeddings,omitempty"`

	// Analysis
	Concurrency int `koanf:"concurrency" json:"concurrency,omitempty"` // Parallel resumes in bulk analysis

	// Fetching
	UseBrowser          bool `koanf:"use_browser" json:"use_browser,omitempty"` // Use headless browser for SPA job pages
	FetchTimeoutSeconds int  `koanf:"fetch_timeout_seconds" json:"fetch_timeout_seconds,omitempty"`

	// Queue
	AMQPURL  string `koanf:"amqp_url" json:"amqp_url,omitempty"`
	Queue    string `koanf:"queue" json:"queue,omitempty"`
	Exchange string `koanf:"exchange" json:"exchange,omitempty"`

	// Logging
	LogLevel  string `koanf:"log_level" json:"log_level,omitempty"`
	LogFormat string `koanf:"log_format" json:"log_format,omitempty"`
	Verbose   bool   `koanf:"verbose" json:"verbose,omitempty"`

	// Auth
	JWTSecret          string `koanf:"jwt_secret" json:"jwt_secret,omitempty"`
	JWTExpirationHours int    `koanf:"jwt_expiration_hours" json:"jwt_expiration_hours,omitempty"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Port:                8080,
		RateLimitPerMinute:  60,
		EmbeddingModel:      "text-embedding-004",
		Concurrency:         8,
		FetchTimeoutSeconds: 30,
		Queue:               "resume_analysis",
		Exchange:            "analysis_updates",
		LogLevel:            "info",
		LogFormat:           "text",
		JWTExpirationHours:  24,
	}
}

// Load builds a Config from defaults, the file at path (or $RESUME_MATCHER_CONFIG when
// path is empty) and the environment. A missing path is not an error; a path that
// cannot be read or parsed is.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// RESUME_MATCHER_DATABASE_URL -> database_url
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config error: 'rate_limit_per_minute' must be non-negative")
	}
	if c.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'fetch_timeout_seconds' must be non-negative")
	}
	if c.JWTExpirationHours < 0 {
		return fmt.Errorf("config error: 'jwt_expiration_hours' must be non-negative")
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.UseGeminiEmbeddings && c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: 'use_gemini_embeddings' requires 'gemini_api_key'")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = defaults.EmbeddingModel
	}
	if result.AMQPURL == "" {
		result.AMQPURL = defaults.AMQPURL
	}
	if result.Queue == "" {
		result.Queue = defaults.Queue
	}
	if result.Exchange == "" {
		result.Exchange = defaults.Exchange
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.JWTSecret == "" {
		result.JWTSecret = defaults.JWTSecret
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimitPerMinute == 0 {
		result.RateLimitPerMinute = defaults.RateLimitPerMinute
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.FetchTimeoutSeconds == 0 {
		result.FetchTimeoutSeconds = defaults.FetchTimeoutSeconds
	}
	if result.JWTExpirationHours == 0 {
		result.JWTExpirationHours = defaults.JWTExpirationHours
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
