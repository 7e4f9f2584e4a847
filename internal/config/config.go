package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// External conversion tools
	PandocBin        string
	TidyBin          string
	TransformTimeout time.Duration

	// Round-trip validation
	ValidateWorkers int
	ScratchDir      string

	// Upload limits
	MaxUploadBytes int64
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("TEIPRESS_API_KEY"),

		PandocBin:        envOr("PANDOC_BIN", "pandoc"),
		TidyBin:          envOr("TIDY_BIN", "tidy"),
		TransformTimeout: envDuration("TRANSFORM_TIMEOUT", 60*time.Second),

		ValidateWorkers: envInt("VALIDATE_WORKERS", 4),
		ScratchDir:      os.Getenv("SCRATCH_DIR"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB
	}

	if cfg.TransformTimeout <= 0 {
		cfg.TransformTimeout = 60 * time.Second
	}
	if cfg.ValidateWorkers <= 0 {
		cfg.ValidateWorkers = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("TEIPRESS_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
