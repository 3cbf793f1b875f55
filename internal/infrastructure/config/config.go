// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	opts := cfg.CleanOptions()
//	port := cfg.API.Port
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/ledgerclean/internal/application/clean"
	"github.com/eshaffer321/ledgerclean/internal/domain/dedupe"
)

// Config represents the entire application configuration
type Config struct {
	Dedupe        DedupeConfig        `yaml:"dedupe"`
	Clean         CleanConfig         `yaml:"clean"`
	Export        ExportConfig        `yaml:"export"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// DedupeConfig holds duplicate detection thresholds
type DedupeConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MaxDayDiff          int     `yaml:"max_day_diff"`
	BundleDayWindow     int     `yaml:"bundle_day_window"`
}

// CleanConfig holds row filters applied before detection
type CleanConfig struct {
	DropTransfer   bool `yaml:"drop_transfer"`
	DropZeroAmount bool `yaml:"drop_zero_amount"`
}

// ExportConfig holds output settings
type ExportConfig struct {
	Format   string `yaml:"format"`
	BaseName string `yaml:"base_name"` // Overrides the source file name in output names (optional)
}

// APIConfig holds HTTP server settings
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	d := dedupe.DefaultConfig()
	return &Config{
		Dedupe: DedupeConfig{
			SimilarityThreshold: d.SimilarityThreshold,
			MaxDayDiff:          d.MaxDayDiff,
			BundleDayWindow:     d.BundleDayWindow,
		},
		Export: ExportConfig{Format: "csv_utf8_bom"},
		API: APIConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

// Load reads and parses the config file. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${LEDGERCLEAN_SIM})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := Default()

	cfg.Dedupe.SimilarityThreshold = getEnvFloat("LEDGERCLEAN_SIM", cfg.Dedupe.SimilarityThreshold)
	cfg.Dedupe.MaxDayDiff = getEnvInt("LEDGERCLEAN_MAX_DAY_DIFF", cfg.Dedupe.MaxDayDiff)
	cfg.Dedupe.BundleDayWindow = getEnvInt("LEDGERCLEAN_BUNDLE_WINDOW", cfg.Dedupe.BundleDayWindow)
	cfg.Clean.DropTransfer = getEnvBool("LEDGERCLEAN_DROP_TRANSFER", false)
	cfg.Clean.DropZeroAmount = getEnvBool("LEDGERCLEAN_DROP_ZERO", false)
	cfg.Export.Format = getEnv("LEDGERCLEAN_FORMAT", cfg.Export.Format)
	cfg.API.Port = getEnvInt("LEDGERCLEAN_PORT", cfg.API.Port)
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", "info")
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", "text")

	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnv_WithPath("config.yaml")
}

// LoadOrEnv_WithPath tries to load from specified path, falls back to environment variables
func LoadOrEnv_WithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// DetectorConfig returns clamped detection thresholds.
func (c *Config) DetectorConfig() dedupe.Config {
	return dedupe.Config{
		SimilarityThreshold: c.Dedupe.SimilarityThreshold,
		MaxDayDiff:          c.Dedupe.MaxDayDiff,
		BundleDayWindow:     c.Dedupe.BundleDayWindow,
	}.Clamp()
}

// CleanOptions returns the pipeline options described by the config.
func (c *Config) CleanOptions() clean.Options {
	return clean.Options{
		DropTransfer:   c.Clean.DropTransfer,
		DropZeroAmount: c.Clean.DropZeroAmount,
		Dedupe:         c.DetectorConfig(),
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return fallback
}
