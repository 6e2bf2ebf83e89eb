package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.MailPort != 587 || !cfg.MailUseTLS {
		t.Fatalf("unexpected mail defaults: %+v", cfg)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authd.yaml")
	content := `
listenAddr: ":9000"
secretKey: "file-secret"
redis:
  addr: "localhost:6379"
mail:
  server: "smtp.example.com"
  useTls: false
otp:
  ttl: 2m
session:
  lifetime: 24h
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg := loadConfig(path)
	if cfg.ListenAddr != ":9000" || cfg.SecretKey != "file-secret" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.MailServer != "smtp.example.com" || cfg.MailUseTLS {
		t.Fatalf("mail values not applied: %+v", cfg)
	}
	if cfg.OTPTTL != 2*time.Minute || cfg.SessionLifetime != 24*time.Hour {
		t.Fatalf("durations not applied: %+v", cfg)
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authd.yaml")
	if err := os.WriteFile(path, []byte("secretKey: \"file-secret\"\n"), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("MAIL_SERVER", "smtp.env.example.com")
	t.Setenv("MAIL_PORT", "2525")
	t.Setenv("MAIL_USE_TLS", "false")
	t.Setenv("REDIS_ADDR", "envhost:6379")

	cfg := loadConfig(path)
	if cfg.SecretKey != "env-secret" {
		t.Fatalf("SecretKey = %q", cfg.SecretKey)
	}
	if cfg.MailServer != "smtp.env.example.com" || cfg.MailPort != 2525 || cfg.MailUseTLS {
		t.Fatalf("mail env overrides not applied: %+v", cfg)
	}
	if cfg.RedisAddr != "envhost:6379" {
		t.Fatalf("RedisAddr = %q", cfg.RedisAddr)
	}
}
