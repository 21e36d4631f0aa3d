// Package config provides environment-based configuration for the server
// and CLI. Entrypoints load a .env file with godotenv before calling FromEnv.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort               = "8080"
	DefaultDailyGenerationCap = 20
	DefaultPendingStorePath   = "pending_flags.json"
)

// Config holds server configuration read from the environment.
type Config struct {
	Port        string // PORT
	DatabaseURL string // DATABASE_URL

	GeminiAPIKey string // GEMINI_API_KEY
	ModelTier    string // MODEL_TIER (lite, standard, advanced)

	// DailyGenerationCap bounds AI generations per user per feature per
	// UTC day. Zero disables the cap.
	DailyGenerationCap int // DAILY_GENERATION_CAP

	// PendingStorePath is where in-flight generation flags are persisted
	// so polling survives a restart.
	PendingStorePath string // PENDING_STORE_PATH

	ChromePath string // CHROME_PATH, optional explicit browser binary
}

// FromEnv reads configuration from environment variables, applying
// defaults for optional values.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:               os.Getenv("PORT"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		ModelTier:          os.Getenv("MODEL_TIER"),
		DailyGenerationCap: DefaultDailyGenerationCap,
		PendingStorePath:   os.Getenv("PENDING_STORE_PATH"),
		ChromePath:         os.Getenv("CHROME_PATH"),
	}

	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.PendingStorePath == "" {
		cfg.PendingStorePath = DefaultPendingStorePath
	}

	if capStr := os.Getenv("DAILY_GENERATION_CAP"); capStr != "" {
		cap, err := strconv.Atoi(capStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DAILY_GENERATION_CAP: %v", err)
		}
		cfg.DailyGenerationCap = cap
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *Config) normalize() error {
	if c.DailyGenerationCap < 0 {
		return fmt.Errorf("DAILY_GENERATION_CAP must be non-negative, got: %d", c.DailyGenerationCap)
	}
	return nil
}

// RequireDatabase returns an error when the database URL is unset. Commands
// that persist resumes call this; the offline export command does not.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	return nil
}

// RequireGemini returns an error when the Gemini API key is unset.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required but not set")
	}
	return nil
}
