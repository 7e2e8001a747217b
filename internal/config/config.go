// Package config reads service configuration from the environment. A .env
// file is honored in development (loaded by main via godotenv).
package config

import (
	"os"
	"time"
)

type Config struct {
	Addr          string        // listen address
	DatabaseURL   string        // postgres DSN; empty selects the in-memory store
	SessionSecret string        // HMAC key for session tokens
	SessionTTL    time.Duration // session lifetime
	LogLevel      string        // zap level name
}

func FromEnv() Config {
	cfg := Config{
		Addr:          getenv("ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: getenv("SESSION_SECRET", "wuthering-waves-secret"),
		SessionTTL:    30 * 24 * time.Hour,
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.SessionTTL = d
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
