package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != AppEnvDev {
		t.Fatalf("expected App.Env to default to dev, got %q", cfg.App.Env)
	}
	if cfg.API.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected request timeout: %v", cfg.API.RequestTimeout)
	}
	if cfg.Storage.Backend != StorageBackendFile {
		t.Fatalf("unexpected storage backend: %q", cfg.Storage.Backend)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvAPIBaseURL, "https://api.example.com/api/v1")
	t.Setenv(EnvStorageBackend, StorageBackendRedis)
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsProd() {
		t.Fatal("expected production env")
	}
	if cfg.API.BaseURL != "https://api.example.com/api/v1" {
		t.Fatalf("unexpected base url: %q", cfg.API.BaseURL)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected redis url: %q", cfg.Redis.URL)
	}
}

func TestLoad_RejectsUnknownStorageBackend(t *testing.T) {
	t.Setenv(EnvStorageBackend, "gcs")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown storage backend to return an error")
	}
}

func TestRefreshTokenTTL(t *testing.T) {
	j := JWTConfig{RefreshTokenTTLMinutes: 60}
	if got := j.RefreshTokenTTL(); got != time.Hour {
		t.Fatalf("expected 1h, got %v", got)
	}
	j.RefreshTokenTTLMinutes = 0
	if got := j.RefreshTokenTTL(); got != 0 {
		t.Fatalf("expected zero TTL, got %v", got)
	}
}
