package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "usaha-backend" {
		t.Fatalf("unexpected app name: %q", cfg.App.Name)
	}
	if cfg.App.Port != 8080 {
		t.Fatalf("unexpected app port: %d", cfg.App.Port)
	}
	if cfg.JWT.AccessTokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %v", cfg.JWT.AccessTokenTTL)
	}
	if cfg.RateLimit.LoginMaxAttempts != 5 {
		t.Fatalf("unexpected login attempt limit: %d", cfg.RateLimit.LoginMaxAttempts)
	}
	if cfg.RateLimit.ForgotPasswordMaxHits != 3 {
		t.Fatalf("unexpected forgot password limit: %d", cfg.RateLimit.ForgotPasswordMaxHits)
	}
	if cfg.Kafka.Enabled {
		t.Fatal("kafka must default to disabled")
	}
	if cfg.Password.MinStrengthScore != 0 {
		t.Fatalf("strength gate must default to off, got %d", cfg.Password.MinStrengthScore)
	}
	if cfg.SMTP.From != "no-reply@hajuenter.my.id" {
		t.Fatalf("unexpected smtp from: %q", cfg.SMTP.From)
	}
	if cfg.Argon2.Memory != 65536 {
		t.Fatalf("unexpected argon2 memory: %d", cfg.Argon2.Memory)
	}
}

func TestLoadHonorsEnvOverrides(t *testing.T) {
	t.Setenv("USAHA_APP_PORT", "9090")
	t.Setenv("USAHA_JWT_SECRET", "env-secret")
	t.Setenv("USAHA_RATE_LIMIT_LOGIN_MAX_ATTEMPTS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Port != 9090 {
		t.Fatalf("expected port override, got %d", cfg.App.Port)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Fatalf("expected secret override, got %q", cfg.JWT.Secret)
	}
	if cfg.RateLimit.LoginMaxAttempts != 10 {
		t.Fatalf("expected attempt override, got %d", cfg.RateLimit.LoginMaxAttempts)
	}
}
