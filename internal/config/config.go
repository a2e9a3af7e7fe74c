// Package config loads gateway configuration from the environment, a .env
// file, and an optional YAML file. Environment variables always win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

type Config struct {
	Port          string        `yaml:"port"`
	WebhookSecret string        `yaml:"webhook_secret"`
	LogPayloads   bool          `yaml:"log_payloads"`

	APIToken string `yaml:"api_token"`
	TenantID string `yaml:"tenant_id"`
	APIURL   string `yaml:"api_url"`

	DatabaseURL string        `yaml:"database_url"`
	RedisURL    string        `yaml:"redis_url"`
	LedgerTTL   time.Duration `yaml:"ledger_ttl"`

	// MaxAge bounds |now - timestamp| for signed deliveries. Zero disables
	// the replay window, matching the provider's reference behavior.
	MaxAge time.Duration `yaml:"webhook_max_age"`

	RateRPS   float64 `yaml:"rate_rps"`
	RateBurst int     `yaml:"rate_burst"`
}

// Load reads .env, then CONFIG_FILE if set, then environment overrides.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:      "3000",
		APIURL:    "https://api.sendseven.com/api/v1",
		LedgerTTL: 24 * time.Hour,
		RateBurst: 20,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		cfg.WebhookSecret = v
	}
	if v := os.Getenv("LOG_PAYLOADS"); v != "" {
		cfg.LogPayloads = truthy(v)
	}
	if v := os.Getenv("SENDSEVEN_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("SENDSEVEN_TENANT_ID"); v != "" {
		cfg.TenantID = v
	}
	if v := os.Getenv("SENDSEVEN_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("LEDGER_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("LEDGER_TTL: %w", err)
		}
		cfg.LedgerTTL = d
	}
	if v := os.Getenv("WEBHOOK_MAX_AGE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("WEBHOOK_MAX_AGE: %w", err)
		}
		cfg.MaxAge = d
	}
	if v := os.Getenv("RATE_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("RATE_RPS: %w", err)
		}
		cfg.RateRPS = f
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("RATE_BURST: %w", err)
		}
		cfg.RateBurst = n
	}

	return cfg, nil
}

// EchoEnabled reports whether the gateway has credentials to send replies.
// Without them, message.received events are logged but not answered.
func (c Config) EchoEnabled() bool { return c.APIToken != "" && c.TenantID != "" }

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	}
	return false
}
