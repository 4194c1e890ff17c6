package config

import (
	"testing"
	"time"
)

func TestLoadConfig_DefaultsWithoutEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.App.Port != "5000" {
		t.Fatalf("expected default port 5000, got %q", cfg.App.Port)
	}
	if cfg.MoMo.Currency != "RWF" {
		t.Fatalf("expected default currency RWF, got %q", cfg.MoMo.Currency)
	}
	if cfg.Storage.Driver != "local" {
		t.Fatalf("expected local storage driver, got %q", cfg.Storage.Driver)
	}
	if cfg.JWT.AccessExpiry != 15*time.Minute {
		t.Fatalf("expected fallback access expiry, got %v", cfg.JWT.AccessExpiry)
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "8080")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("JWT_REFRESH_EXPIRY", "2h")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.App.Port)
	}
	if cfg.Storage.Driver != "s3" {
		t.Fatalf("expected s3 driver, got %q", cfg.Storage.Driver)
	}
	if cfg.JWT.RefreshExpiry != 2*time.Hour {
		t.Fatalf("expected 2h refresh expiry, got %v", cfg.JWT.RefreshExpiry)
	}
}
