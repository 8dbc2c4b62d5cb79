package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: "9090"
redis:
  addr: localhost:6379
  ttl: 5m
quiz:
  duration: 90s
paywall:
  payment_url: https://pay.example/checkout
  client_unlock: true
cors:
  allowed_origins: [https://quiz.example]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" || !cfg.Paywall.ClientUnlock {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if got := TTLDuration(cfg.Quiz.Duration, time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://quiz.example" {
		t.Fatalf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.ResultsBackend() != "redis" {
		t.Fatalf("expected redis backend, got %s", cfg.ResultsBackend())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestResultsBackend(t *testing.T) {
	var cfg Config
	if cfg.ResultsBackend() != "memory" {
		t.Fatalf("expected memory by default")
	}
	cfg.SQLite.Path = "results.db"
	if cfg.ResultsBackend() != "sqlite" {
		t.Fatalf("expected sqlite")
	}
	cfg.Redis.Addr = "localhost:6379"
	if cfg.ResultsBackend() != "redis" {
		t.Fatalf("expected redis over sqlite")
	}
	cfg.Postgres.URL = "postgres://localhost/quiz"
	if cfg.ResultsBackend() != "postgres" {
		t.Fatalf("expected postgres over redis")
	}
	cfg.Results.Backend = "memory"
	if cfg.ResultsBackend() != "memory" {
		t.Fatalf("expected explicit backend to win")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for invalid value, got %s", got)
	}
}
