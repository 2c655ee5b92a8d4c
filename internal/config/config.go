// Package config loads the application configuration from environment
// variables into an explicit struct passed to the components that need
// it. There is no process-wide configuration singleton.
package config

import (
	"os"
	"strconv"
	"strings"

	"csvscope/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Pipeline PipelineConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// StorageConfig holds upload and output locations and limits
type StorageConfig struct {
	UploadRoot        string
	OutputRoot        string
	MaxUploadBytes    int64
	AllowedExtensions []string
}

// DatabaseConfig holds the optional run-ledger connection. The ledger is
// disabled when URL is empty.
type DatabaseConfig struct {
	URL string
}

// PipelineConfig holds the tunable analysis heuristics
type PipelineConfig struct {
	NumericThreshold float64 // fraction of non-missing cells that must parse as numbers
	CountPlotMax     int     // distinct-value cutoff between count plot and histogram
	MaxBins          int     // histogram bin ceiling
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Storage: StorageConfig{
			UploadRoot:        getEnvOrDefault("UPLOAD_ROOT", "uploads"),
			OutputRoot:        getEnvOrDefault("OUTPUT_ROOT", "results"),
			MaxUploadBytes:    getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 16*1024*1024),
			AllowedExtensions: splitList(getEnvOrDefault("ALLOWED_EXTENSIONS", ".csv,.xlsx")),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Pipeline: PipelineConfig{
			NumericThreshold: getEnvFloatOrDefault("NUMERIC_THRESHOLD", 0.8),
			CountPlotMax:     getEnvIntOrDefault("COUNT_PLOT_MAX", 10),
			MaxBins:          getEnvIntOrDefault("MAX_BINS", 30),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Storage.OutputRoot == "" {
		return errors.ConfigInvalid("OUTPUT_ROOT cannot be empty")
	}
	if cfg.Storage.UploadRoot == "" {
		return errors.ConfigInvalid("UPLOAD_ROOT cannot be empty")
	}
	if cfg.Storage.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.Pipeline.NumericThreshold <= 0 || cfg.Pipeline.NumericThreshold >= 1 {
		return errors.ConfigInvalid("NUMERIC_THRESHOLD must be in (0, 1)")
	}
	if cfg.Pipeline.CountPlotMax < 1 {
		return errors.ConfigInvalid("COUNT_PLOT_MAX must be at least 1")
	}
	if cfg.Pipeline.MaxBins < 1 {
		return errors.ConfigInvalid("MAX_BINS must be at least 1")
	}
	return nil
}

// AllowsExtension checks an upload file extension against the allow list
func (s StorageConfig) AllowsExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range s.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64OrDefault(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
