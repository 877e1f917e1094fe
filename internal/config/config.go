package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	Env      string
	DataFile string

	// MirrorDSN points at the remote snapshot mirror; empty disables mirroring.
	MirrorDSN string

	JWTSecret string

	SessionTTL         time.Duration
	ExpiryPollInterval time.Duration

	// AllowUnknownSessions enables the lenient cross-device redemption mode.
	AllowUnknownSessions bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		Env:                  os.Getenv("ENV"),
		DataFile:             os.Getenv("DATA_FILE"),
		MirrorDSN:            os.Getenv("MIRROR_DSN"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		SessionTTL:           5 * time.Minute,
		ExpiryPollInterval:   2 * time.Second,
		AllowUnknownSessions: os.Getenv("ALLOW_UNKNOWN_SESSIONS") == "true",
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	cfg.Addr = ":" + port

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.DataFile == "" {
		cfg.DataFile = "data/attendance.json"
	}

	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL %q", raw)
		}
		cfg.SessionTTL = d
	}
	if raw := os.Getenv("EXPIRY_POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < time.Second || d > 3*time.Second {
			return nil, fmt.Errorf("EXPIRY_POLL_INTERVAL %q must be between 1s and 3s", raw)
		}
		cfg.ExpiryPollInterval = d
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "insecure-dev-secret"
	}

	return cfg, nil
}
