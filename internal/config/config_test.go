package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"BUZZER_API_URL", "BUZZER_VERIFY_URL", "BUZZER_VERIFY_KEY", "BUZZER_COUNTRY_CODE", "BUZZER_DATA_DIR"} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.buzzer.app/api/v1" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.DefaultCountryCode != "+20" {
		t.Errorf("DefaultCountryCode = %q", cfg.DefaultCountryCode)
	}
	if !strings.HasSuffix(cfg.DataDir, ".buzzer") {
		t.Errorf("DataDir = %q, want under the home dir", cfg.DataDir)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BUZZER_API_URL", "http://localhost:4000/api/v1")
	t.Setenv("BUZZER_VERIFY_KEY", "k-123")
	t.Setenv("BUZZER_COUNTRY_CODE", "+971")
	t.Setenv("BUZZER_DATA_DIR", "/tmp/buzzer-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:4000/api/v1" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.VerifyAPIKey != "k-123" {
		t.Errorf("VerifyAPIKey = %q", cfg.VerifyAPIKey)
	}
	if cfg.DefaultCountryCode != "+971" {
		t.Errorf("DefaultCountryCode = %q", cfg.DefaultCountryCode)
	}
	if cfg.DataDir != "/tmp/buzzer-test" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}
