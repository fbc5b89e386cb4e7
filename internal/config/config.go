package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration, read from the environment.
// A .env file in the working directory is loaded first if present.
type Config struct {
	Addr            string        // listen address
	DBPath          string        // path to the SQLite database file
	JWTSecret       string        // HMAC secret for access tokens, required
	AccessTokenTTL  time.Duration // access token lifetime
	RefreshTokenTTL time.Duration // refresh token lifetime
	UploadDir       string        // directory for uploaded avatars
	RateLimit       int           // requests allowed per window per IP
	RateWindow      time.Duration // rate limit window
	CleanupSchedule string        // cron spec for the janitor
}

// Load reads the configuration from environment variables,
// applying defaults for everything except JWT_SECRET.
func Load() (*Config, error) {
	// Missing .env is fine, env vars may be set directly
	_ = godotenv.Load()

	cfg := &Config{
		Addr:            getEnv("ADDR", ":8080"),
		DBPath:          getEnv("DB_PATH", "fintrack.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "@hourly"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = getDuration("RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getInt("RATE_LIMIT", 120); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
