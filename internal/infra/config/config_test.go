package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "2m")
	t.Setenv("REFRESH_TOKEN_TTL", "3h")
	t.Setenv("JWT_ISSUER", "tube-service")
	t.Setenv("JWT_AUDIENCE", "tube-web")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("S3_BUCKET", "media")
}

func TestLoad_Success(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", `["https://app.example.com"]`)
	t.Setenv("ALLOW_CREDENTIALS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AccessTokenTTL != 2*time.Minute {
		t.Fatalf("AccessTokenTTL want 2m, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 3*time.Hour {
		t.Fatalf("RefreshTokenTTL want 3h, got %v", cfg.RefreshTokenTTL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://app.example.com" {
		t.Fatalf("AllowedOrigins: %v", cfg.AllowedOrigins)
	}
	if !cfg.AllowCredentials {
		t.Fatal("AllowCredentials want true")
	}
	if cfg.PasswordHasher != "argon2id" || cfg.HTTPAddress != ":8000" {
		t.Fatalf("defaults not applied: %q %q", cfg.PasswordHasher, cfg.HTTPAddress)
	}
}

func TestLoad_CommaSeparatedOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("AllowedOrigins: %v", cfg.AllowedOrigins)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ISSUER", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error due to missing JWT_ISSUER, got nil")
	}
}

func TestLoad_RefreshMustOutliveAccess(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("REFRESH_TOKEN_TTL", "30m")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for refresh TTL shorter than access TTL")
	}
}

func TestLoad_SameSecretsRejected(t *testing.T) {
	setRequired(t)
	t.Setenv("REFRESH_TOKEN_SECRET", "access-secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for shared secret")
	}
}

func TestLoad_UnknownHasher(t *testing.T) {
	setRequired(t)
	t.Setenv("PASSWORD_HASHER", "md5")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown hasher")
	}
}
