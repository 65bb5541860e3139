// Package config loads application settings from the environment, with
// an optional YAML file underneath. Environment variables always win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port       string `yaml:"port"`
	SiteKey    string `yaml:"site_key"`
	SessionKey string `yaml:"session_key"`
	// Env is "development" or "production". Development relaxes the
	// Secure cookie attribute and the __Host- prefix for plain-HTTP
	// local testing; a deployed instance must never run with it.
	Env                string   `yaml:"env"`
	RedisURL           string   `yaml:"redis_url"`
	DatabaseURL        string   `yaml:"database_url"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// Load reads .env.local (if present), then the YAML file named by
// CONFIG_FILE (if set), then environment variable overrides.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")

	cfg := &Config{
		Port:    "5050",
		SiteKey: "ember",
		Env:     "production",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	if cfg.SessionKey == "" {
		return nil, errors.New("SESSION_CRYPTOKEY must be set")
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setIfPresent(&cfg.Port, "PORT")
	setIfPresent(&cfg.SiteKey, "SITE_KEY")
	setIfPresent(&cfg.SessionKey, "SESSION_CRYPTOKEY")
	setIfPresent(&cfg.Env, "APP_ENV")
	setIfPresent(&cfg.RedisURL, "REDIS_URL")
	setIfPresent(&cfg.DatabaseURL, "DATABASE_URL")

	if os.Getenv("IS_DEV") == "1" {
		cfg.Env = "development"
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Dev reports whether the instance runs in local development mode.
func (c *Config) Dev() bool {
	return c.Env == "development"
}
