// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backend names accepted by PLANSHEET_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	// Server settings.
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// BaseURL is the externally visible prefix for download links,
	// e.g. "https://plansheet.example.com".
	BaseURL string

	// Artifact store settings.
	StoreBackend  string        // "memory" or "postgres"
	DatabaseURL   string        // required for the postgres backend
	ArtifactTTL   time.Duration // truncated to whole seconds at Put time
	SingleUse     bool          // delete-on-read download links
	SweepInterval time.Duration

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	// Operational settings.
	LogLevel            string
	MaxRequestBodyBytes int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                envInt("PLANSHEET_PORT", 8080),
		ReadTimeout:         envDuration("PLANSHEET_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:        envDuration("PLANSHEET_WRITE_TIMEOUT", 30*time.Second),
		BaseURL:             envStr("PLANSHEET_BASE_URL", ""),
		StoreBackend:        envStr("PLANSHEET_STORE", StoreMemory),
		DatabaseURL:         envStr("DATABASE_URL", ""),
		ArtifactTTL:         envDuration("PLANSHEET_ARTIFACT_TTL", time.Hour),
		SingleUse:           envBool("PLANSHEET_SINGLE_USE", true),
		SweepInterval:       envDuration("PLANSHEET_SWEEP_INTERVAL", time.Minute),
		OTELEndpoint:        envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELInsecure:        envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		ServiceName:         envStr("OTEL_SERVICE_NAME", "plansheet"),
		LogLevel:            envStr("PLANSHEET_LOG_LEVEL", "info"),
		MaxRequestBodyBytes: int64(envInt("PLANSHEET_MAX_REQUEST_BODY_BYTES", 4*1024*1024)),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present and consistent.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("config: PLANSHEET_STORE must be %q or %q (got %q)",
			StoreMemory, StorePostgres, c.StoreBackend)
	}
	if c.ArtifactTTL < time.Second {
		return fmt.Errorf("config: PLANSHEET_ARTIFACT_TTL must be at least one second")
	}
	if c.MaxRequestBodyBytes <= 0 {
		return fmt.Errorf("config: PLANSHEET_MAX_REQUEST_BODY_BYTES must be positive")
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
