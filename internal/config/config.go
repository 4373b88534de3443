// Package config provides CLI configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"
)

// Config holds all CLI configuration.
type Config struct {
	// PublicKey is the RSA public key in "index|exponent|modulus" form.
	PublicKey string
	// APIKey authenticates payload submission.
	APIKey string
	// BaseURL is the Ravelin API base URL.
	BaseURL string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// Retries is the number of retries for failed submissions. Zero
	// disables retrying.
	Retries int
	// MinPANDigits is the shortest accepted card number.
	MinPANDigits int
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		PublicKey: env.GetString("RAVELIN_PUBLIC_KEY", ""),
		APIKey:    env.GetString("RAVELIN_API_KEY", ""),
		BaseURL:   env.GetString("RAVELIN_BASE_URL", "https://api.ravelin.com"),

		Timeout: env.GetDuration("RAVELIN_TIMEOUT_SECONDS", 30, time.Second),
		Retries: env.GetInt("RAVELIN_RETRIES", 3),

		MinPANDigits: env.GetInt("RAVELIN_MIN_PAN_DIGITS", 12),

		LogLevel: env.GetString("RAVELIN_LOG_LEVEL", "info"),
	}
}

// Validate checks the values that would otherwise fail deep inside a
// command.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Retries, validation.Min(0)),
		validation.Field(&c.MinPANDigits, validation.Required, validation.Min(1)),
		validation.Field(&c.LogLevel,
			validation.Required,
			validation.In("panic", "fatal", "error", "warn", "warning", "info", "debug", "trace"),
		),
	)
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// variables already set in the environment win
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
