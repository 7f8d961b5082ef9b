package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the IVR service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	SessionJanitorInterval   time.Duration
	MetricsNamespace         string

	AllowAnyOrigin bool

	LogLevel string
	LogJSON  bool

	SessionStore         string
	DatabaseURL          string
	ComplaintStoreDSN    string
	StoreConnectAttempts int

	ComplaintIDPrefix string
	TaxonomyFile      string

	LocationPhoneticMatch     bool
	LocationPhoneticThreshold float64
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "samvad"),
		AllowAnyOrigin:    false,
		LogLevel:          strings.ToLower(envOrDefault("APP_LOG_LEVEL", "info")),
		LogJSON:           true,
		SessionStore:      strings.ToLower(envOrDefault("SESSION_STORE", "memory")),
		DatabaseURL:       stringsTrimSpace("DATABASE_URL"),
		ComplaintStoreDSN: stringsTrimSpace("COMPLAINT_STORE_DSN"),
		ComplaintIDPrefix: strings.ToUpper(envOrDefault("COMPLAINT_ID_PREFIX", "VMC")),
		TaxonomyFile:      stringsTrimSpace("TAXONOMY_FILE"),
		// Calls are short but callers pause to find their phone number.
		SessionInactivityTimeout:  10 * time.Minute,
		SessionJanitorInterval:    30 * time.Second,
		ShutdownTimeout:           15 * time.Second,
		StoreConnectAttempts:      5,
		LocationPhoneticThreshold: 0.88,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionJanitorInterval, err = durationFromEnv("APP_SESSION_JANITOR_INTERVAL", cfg.SessionJanitorInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.LogJSON, err = boolFromEnv("APP_LOG_JSON", cfg.LogJSON)
	if err != nil {
		return Config{}, err
	}
	cfg.StoreConnectAttempts, err = intFromEnv("STORE_CONNECT_ATTEMPTS", cfg.StoreConnectAttempts)
	if err != nil {
		return Config{}, err
	}
	cfg.LocationPhoneticMatch, err = boolFromEnv("LOCATION_PHONETIC_MATCH", cfg.LocationPhoneticMatch)
	if err != nil {
		return Config{}, err
	}
	cfg.LocationPhoneticThreshold, err = floatFromEnv("LOCATION_PHONETIC_THRESHOLD", cfg.LocationPhoneticThreshold)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.SessionJanitorInterval <= 0 {
		return Config{}, fmt.Errorf("APP_SESSION_JANITOR_INTERVAL must be positive")
	}
	switch cfg.SessionStore {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("SESSION_STORE=postgres requires DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("SESSION_STORE must be memory or postgres, got %q", cfg.SessionStore)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("APP_LOG_LEVEL must be debug, info, warn or error")
	}
	if cfg.StoreConnectAttempts <= 0 {
		return Config{}, fmt.Errorf("STORE_CONNECT_ATTEMPTS must be positive")
	}
	if cfg.LocationPhoneticThreshold <= 0 || cfg.LocationPhoneticThreshold > 1 {
		return Config{}, fmt.Errorf("LOCATION_PHONETIC_THRESHOLD must be in (0, 1]")
	}
	if cfg.ComplaintIDPrefix == "" || strings.ContainsAny(cfg.ComplaintIDPrefix, "- ") {
		return Config{}, fmt.Errorf("COMPLAINT_ID_PREFIX must be non-empty without dashes")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
