package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Source is the Beast feed address, host:port.
	Source string

	// Optional service endpoints. Empty disables the corresponding sink.
	NATSURL     string
	DatabaseURL string
	RedisAddr   string

	OutputDir string

	// Receiver location for surface and reference position decoding.
	// Either both are set or both are nil.
	RefLat *float64
	RefLon *float64

	// CaptureDuration stops a capture session after the given time.
	// Zero means run until interrupted.
	CaptureDuration time.Duration
}

// Load loads the configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Source:      os.Getenv("SOURCE"),
		NATSURL:     os.Getenv("NATS_URL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		OutputDir:   os.Getenv("OUTPUT_DIR"),
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./data" // Default output directory
	}

	latStr := os.Getenv("REF_LAT")
	lonStr := os.Getenv("REF_LON")
	if (latStr == "") != (lonStr == "") {
		return nil, fmt.Errorf("REF_LAT and REF_LON must be set together")
	}
	if latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid REF_LAT %q: %w", latStr, err)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid REF_LON %q: %w", lonStr, err)
		}
		cfg.RefLat = &lat
		cfg.RefLon = &lon
	}

	if d := os.Getenv("CAPTURE_DURATION"); d != "" {
		dur, err := time.ParseDuration(d)
		if err != nil {
			return nil, fmt.Errorf("invalid CAPTURE_DURATION %q: %w", d, err)
		}
		cfg.CaptureDuration = dur
	}

	return cfg, nil
}
