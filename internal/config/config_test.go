package config

import (
	"testing"
	"time"
)

func TestParseAppliesDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/coachmatch")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AppEnv != "production" {
		t.Errorf("expected production by default, got %s", cfg.AppEnv)
	}
	if cfg.BookingLockTimeout != 5*time.Second {
		t.Errorf("expected 5s lock timeout, got %s", cfg.BookingLockTimeout)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("expected 15s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 2 {
		t.Errorf("expected pool sizing 10/2, got %d/%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.CoachCacheTTL != 5*time.Minute {
		t.Errorf("expected 5m cache TTL, got %s", cfg.CoachCacheTTL)
	}
	if cfg.DocsEnabled() || bool(cfg.SeedOnStart) {
		t.Errorf("expected docs and seeding to be off by default")
	}
}

func TestParseRequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")

	if _, err := Parse(); err == nil {
		t.Fatalf("expected an error without DB_URL")
	}
}

func TestParseNormalizesEnvironmentAndFlags(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/coachmatch")
	t.Setenv("APP_ENV", " Dev ")
	t.Setenv("ENABLE_API_DOCS", "yes")
	t.Setenv("SEED_ON_START", "on")
	t.Setenv("BOOKING_LOCK_TIMEOUT", "750ms")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected development, got %s", cfg.AppEnv)
	}
	if !cfg.DocsEnabled() {
		t.Errorf("expected docs to be enabled in development")
	}
	if !bool(cfg.SeedOnStart) {
		t.Errorf("expected seeding to be enabled")
	}
	if cfg.BookingLockTimeout != 750*time.Millisecond {
		t.Errorf("expected 750ms lock timeout, got %s", cfg.BookingLockTimeout)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/coachmatch")
	t.Setenv("ENABLE_API_DOCS", "maybe")

	if _, err := Parse(); err == nil {
		t.Fatalf("expected an error for an invalid boolean")
	}
}

func TestDocsDisabledOutsideDevelopment(t *testing.T) {
	cfg := &Config{AppEnv: "production", EnableDocs: true}
	if cfg.DocsEnabled() {
		t.Fatalf("expected docs to stay disabled in production")
	}

	var missing *Config
	if missing.DocsEnabled() {
		t.Fatalf("expected nil config to disable docs")
	}
}
