package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SOURCE", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("REF_LAT", "")
	t.Setenv("REF_LON", "")
	t.Setenv("CAPTURE_DURATION", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OutputDir != "./data" {
		t.Errorf("OutputDir = %q, want ./data", cfg.OutputDir)
	}
	if cfg.RefLat != nil || cfg.RefLon != nil {
		t.Error("Reference position should default to nil")
	}
	if cfg.CaptureDuration != 0 {
		t.Errorf("CaptureDuration = %v, want 0", cfg.CaptureDuration)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	t.Setenv("SOURCE", "receiver:30005")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("DATABASE_URL", "postgres://localhost/flightdata")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("OUTPUT_DIR", "/var/lib/flightdata")
	t.Setenv("REF_LAT", "40.2938")
	t.Setenv("REF_LON", "-109.9880")
	t.Setenv("CAPTURE_DURATION", "1h30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source != "receiver:30005" {
		t.Errorf("Source = %q", cfg.Source)
	}
	if cfg.OutputDir != "/var/lib/flightdata" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.RefLat == nil || *cfg.RefLat != 40.2938 {
		t.Errorf("RefLat = %v, want 40.2938", cfg.RefLat)
	}
	if cfg.RefLon == nil || *cfg.RefLon != -109.9880 {
		t.Errorf("RefLon = %v, want -109.9880", cfg.RefLon)
	}
	if cfg.CaptureDuration != 90*time.Minute {
		t.Errorf("CaptureDuration = %v, want 1h30m", cfg.CaptureDuration)
	}
}

func TestLoad_RefPositionMustBePaired(t *testing.T) {
	t.Setenv("REF_LAT", "40.2938")
	t.Setenv("REF_LON", "")

	if _, err := Load(); err == nil {
		t.Error("Expected error when only REF_LAT is set")
	}
}

func TestLoad_BadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad latitude", "REF_LAT", "north"},
		{"bad duration", "CAPTURE_DURATION", "ninety minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REF_LAT", "40.0")
			t.Setenv("REF_LON", "-110.0")
			t.Setenv("CAPTURE_DURATION", "")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
