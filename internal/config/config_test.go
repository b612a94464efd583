package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, yml string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if yml != "" {
		path := filepath.Join(dir, "configs", "config.yml")
		if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(dir)
}

func TestLoad_FullFile(t *testing.T) {
	writeConfig(t, `
port: "9090"
db:
  path: catalog.db
log:
  level: debug
web:
  dir: public
jwt:
  secret: test-secret
  issuer: library-catalog
  audience: library-catalog-spa
  ttl: 15m
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.DBPath != "catalog.db" || cfg.LogLevel != "debug" || cfg.WebDir != "public" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.JWT.Secret != "test-secret" || cfg.JWT.Issuer != "library-catalog" || cfg.JWT.Audience != "library-catalog-spa" {
		t.Errorf("unexpected jwt config: %+v", cfg.JWT)
	}
	if cfg.JWT.TTL != 15*time.Minute {
		t.Errorf("JWT.TTL = %v, want 15m", cfg.JWT.TTL)
	}
}

func TestLoad_DefaultsApply(t *testing.T) {
	writeConfig(t, `
jwt:
  secret: test-secret
  issuer: iss
  audience: aud
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBPath != "library.db" || cfg.LogLevel != "info" || cfg.WebDir != "web" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.JWT.TTL != defaultTokenTTL {
		t.Errorf("JWT.TTL = %v, want %v", cfg.JWT.TTL, defaultTokenTTL)
	}
}

func TestLoad_MissingSecretFails(t *testing.T) {
	writeConfig(t, `
jwt:
  issuer: iss
  audience: aud
`)

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without jwt.secret")
	}
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	writeConfig(t, "")
	t.Setenv("LIBCAT_JWT_SECRET", "env-secret")
	t.Setenv("LIBCAT_JWT_ISSUER", "iss")
	t.Setenv("LIBCAT_JWT_AUDIENCE", "aud")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("JWT.Secret = %q, want env-secret", cfg.JWT.Secret)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	writeConfig(t, `
port: "9090"
jwt:
  secret: file-secret
  issuer: iss
  audience: aud
`)
	t.Setenv("LIBCAT_JWT_SECRET", "env-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("JWT.Secret = %q, want env-secret", cfg.JWT.Secret)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
}
