package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment    string
	WellKnownURL   string
	Port           string
	RequestTimeout time.Duration
	Timezone       string
}

func NewConfig() (*Config, error) {
	env := os.Getenv("LIGHTMAIL_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("Warning: .env file not found, using environment variables")
		}
	}

	timeoutSeconds := 30
	if value := os.Getenv("LIGHTMAIL_HTTP_TIMEOUT_SECONDS"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("LIGHTMAIL_HTTP_TIMEOUT_SECONDS must be a positive integer, got %q", value)
		}
		timeoutSeconds = parsed
	}

	config := &Config{
		Environment:    env,
		WellKnownURL:   os.Getenv("LIGHTMAIL_WELL_KNOWN_URL"),
		Port:           getEnvOrDefault("PORT", "8080"),
		RequestTimeout: time.Duration(timeoutSeconds) * time.Second,
		Timezone:       getEnvOrDefault("TZ", "UTC"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.WellKnownURL == "" {
		return fmt.Errorf("LIGHTMAIL_WELL_KNOWN_URL is required")
	}

	parsed, err := url.Parse(c.WellKnownURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("LIGHTMAIL_WELL_KNOWN_URL must be an absolute URL, got %q", c.WellKnownURL)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
