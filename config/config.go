// Package config sources the gateway's runtime configuration from the
// environment, with an optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port string

	// Upstream platform API.
	PlatformAPIURL     string
	PlatformAPITimeout time.Duration

	// Session storage: SQLite file by default, Postgres when DATABASE_URL
	// is set.
	SessionDBPath string
	DatabaseURL   string

	// Optional shared cache; empty means the in-process cache.
	RedisAddr string

	SessionMaxAge     time.Duration
	CookieName        string
	PendingCookieName string
}

// Load reads configuration from the environment and performs minimal
// validation. A .env file in the working directory is loaded first when
// present; real env vars win over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:               fallback(os.Getenv("GATEWAY_PORT"), "3000"),
		PlatformAPIURL:     strings.TrimSpace(os.Getenv("PLATFORM_API_URL")),
		PlatformAPITimeout: durationFallback(os.Getenv("PLATFORM_API_TIMEOUT_SECONDS"), 10*time.Second),
		SessionDBPath:      fallback(os.Getenv("SESSION_DB_PATH"), "eventra-sessions.db"),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		SessionMaxAge:      durationFallback(os.Getenv("SESSION_MAX_AGE_SECONDS"), 24*time.Hour),
		CookieName:         fallback(os.Getenv("SESSION_COOKIE_NAME"), "eventra_session"),
		PendingCookieName:  fallback(os.Getenv("PENDING_COOKIE_NAME"), "eventra_return_to"),
	}

	if cfg.PlatformAPIURL == "" {
		return Config{}, errors.New("PLATFORM_API_URL is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func durationFallback(value string, def time.Duration) time.Duration {
	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return def
}
