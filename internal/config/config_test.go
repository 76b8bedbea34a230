package config

import (
	"os"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	_ = os.Setenv("LIGHTMAIL_ENV", "production")
	_ = os.Setenv("LIGHTMAIL_WELL_KNOWN_URL", "https://mail.example.com/.well-known/jmap")
	_ = os.Setenv("LIGHTMAIL_HTTP_TIMEOUT_SECONDS", "10")
	_ = os.Setenv("PORT", "3000")

	defer func() {
		_ = os.Unsetenv("LIGHTMAIL_ENV")
		_ = os.Unsetenv("LIGHTMAIL_WELL_KNOWN_URL")
		_ = os.Unsetenv("LIGHTMAIL_HTTP_TIMEOUT_SECONDS")
		_ = os.Unsetenv("PORT")
	}()

	config, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() returned error: %v", err)
	}

	if config.Environment != "production" {
		t.Errorf("expected Environment 'production', got '%s'", config.Environment)
	}

	if config.WellKnownURL != "https://mail.example.com/.well-known/jmap" {
		t.Errorf("expected WellKnownURL 'https://mail.example.com/.well-known/jmap', got '%s'", config.WellKnownURL)
	}

	if config.RequestTimeout != 10*time.Second {
		t.Errorf("expected RequestTimeout 10s, got %v", config.RequestTimeout)
	}

	if config.Port != "3000" {
		t.Errorf("expected Port '3000', got '%s'", config.Port)
	}
}

func TestNewConfigWithDefaults(t *testing.T) {
	_ = os.Setenv("LIGHTMAIL_ENV", "production")
	_ = os.Setenv("LIGHTMAIL_WELL_KNOWN_URL", "https://mail.example.com/.well-known/jmap")

	defer func() {
		_ = os.Unsetenv("LIGHTMAIL_ENV")
		_ = os.Unsetenv("LIGHTMAIL_WELL_KNOWN_URL")
	}()

	config, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() returned error: %v", err)
	}

	if config.Port != "8080" {
		t.Errorf("expected default Port '8080', got '%s'", config.Port)
	}

	if config.RequestTimeout != 30*time.Second {
		t.Errorf("expected default RequestTimeout 30s, got %v", config.RequestTimeout)
	}
}

func TestNewConfigValidation(t *testing.T) {
	t.Run("missing well-known URL is rejected", func(t *testing.T) {
		_ = os.Setenv("LIGHTMAIL_ENV", "production")
		defer func() {
			_ = os.Unsetenv("LIGHTMAIL_ENV")
		}()

		if _, err := NewConfig(); err == nil {
			t.Error("expected error for missing LIGHTMAIL_WELL_KNOWN_URL")
		}
	})

	t.Run("relative well-known URL is rejected", func(t *testing.T) {
		_ = os.Setenv("LIGHTMAIL_ENV", "production")
		_ = os.Setenv("LIGHTMAIL_WELL_KNOWN_URL", "/.well-known/jmap")
		defer func() {
			_ = os.Unsetenv("LIGHTMAIL_ENV")
			_ = os.Unsetenv("LIGHTMAIL_WELL_KNOWN_URL")
		}()

		if _, err := NewConfig(); err == nil {
			t.Error("expected error for relative LIGHTMAIL_WELL_KNOWN_URL")
		}
	})

	t.Run("invalid timeout is rejected", func(t *testing.T) {
		_ = os.Setenv("LIGHTMAIL_ENV", "production")
		_ = os.Setenv("LIGHTMAIL_WELL_KNOWN_URL", "https://mail.example.com/.well-known/jmap")
		_ = os.Setenv("LIGHTMAIL_HTTP_TIMEOUT_SECONDS", "zero")
		defer func() {
			_ = os.Unsetenv("LIGHTMAIL_ENV")
			_ = os.Unsetenv("LIGHTMAIL_WELL_KNOWN_URL")
			_ = os.Unsetenv("LIGHTMAIL_HTTP_TIMEOUT_SECONDS")
		}()

		if _, err := NewConfig(); err == nil {
			t.Error("expected error for non-numeric LIGHTMAIL_HTTP_TIMEOUT_SECONDS")
		}
	})
}
