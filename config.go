package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"alarmd/internal/wake"
)

// config is the daemon configuration. Every field has an environment
// variable; a yaml file named by ALARMD_CONFIG overrides the environment.
type config struct {
	HTTPAddr               string `yaml:"http_addr"`
	DatabaseURL            string `yaml:"database_url"`
	WakeMode               string `yaml:"wake_mode"`
	ExactAllowed           bool   `yaml:"exact_allowed"`
	InexactIntervalSeconds int64  `yaml:"inexact_interval_seconds"`
	JWTSecret              string `yaml:"jwt_secret"`
}

// loadConfig loads config from env, then overlays the yaml file if set.
// An empty DatabaseURL selects the in-memory store; an empty JWTSecret
// leaves the API open, which is fine for the default loopback listener.
func loadConfig() (config, error) {
	cfg := config{
		HTTPAddr:               getenvDefault("ALARMD_HTTP_ADDR", "127.0.0.1:8080"),
		DatabaseURL:            getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		WakeMode:               getenvDefault("ALARMD_WAKE_MODE", wake.ModeExact),
		ExactAllowed:           getenvBoolDefault("ALARMD_EXACT_ALLOWED", true),
		InexactIntervalSeconds: int64(getenvIntDefault("ALARMD_INEXACT_INTERVAL_SECONDS", 60)),
		JWTSecret:              getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}

	if path := os.Getenv("ALARMD_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.WakeMode != wake.ModeExact && cfg.WakeMode != wake.ModeRestricted {
		return cfg, fmt.Errorf("wake mode must be %q or %q, got %q", wake.ModeExact, wake.ModeRestricted, cfg.WakeMode)
	}
	if cfg.InexactIntervalSeconds <= 0 {
		return cfg, fmt.Errorf("inexact interval must be positive, got %d", cfg.InexactIntervalSeconds)
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
