// Package config centralizes deployment configuration. Every value comes from
// the environment (optionally seeded from a .env file) with a working default,
// so no call site hardcodes a backend URL.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all per-deployment settings.
type Config struct {
	// APIBaseURL is the backend REST base, including the version prefix.
	APIBaseURL string
	// VerifyBaseURL is the phone-verification provider's API base.
	VerifyBaseURL string
	// VerifyAPIKey authenticates requests to the verification provider.
	VerifyAPIKey string
	// DefaultCountryCode is prefixed to phone numbers entered without one.
	DefaultCountryCode string
	// DataDir holds the session file and logs. Defaults to ~/.buzzer.
	DataDir string
}

// Load reads configuration with precedence env > .env > default.
func Load() (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	dataDir := os.Getenv("BUZZER_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".buzzer")
	}

	return &Config{
		APIBaseURL:         getenv("BUZZER_API_URL", "https://api.buzzer.app/api/v1"),
		VerifyBaseURL:      getenv("BUZZER_VERIFY_URL", "https://identitytoolkit.googleapis.com"),
		VerifyAPIKey:       os.Getenv("BUZZER_VERIFY_KEY"),
		DefaultCountryCode: getenv("BUZZER_COUNTRY_CODE", "+20"),
		DataDir:            dataDir,
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
