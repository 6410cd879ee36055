package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"wedding-app-go/pkg/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REALTIME_DRIVER", "")
	t.Setenv("HTTP_PORT", "")

	cfg, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port, got %s", cfg.HTTPPort)
	}
	if cfg.Realtime.Driver != RealtimeDriverMemory {
		t.Fatalf("expected memory driver, got %s", cfg.Realtime.Driver)
	}
	if cfg.Storage.Bucket != "wedding-media" {
		t.Fatalf("unexpected bucket %s", cfg.Storage.Bucket)
	}
}

func TestWebsocketOriginsFollowCORS(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CORS_ORIGINS", "https://plan.example.com")
	t.Setenv("REALTIME_ALLOWED_ORIGINS", "")

	cfg, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cfg.Realtime.AllowedWSOrigins) != 1 || cfg.Realtime.AllowedWSOrigins[0] != "https://plan.example.com" {
		t.Fatalf("expected websocket origins from CORS, got %v", cfg.Realtime.AllowedWSOrigins)
	}

	t.Setenv("REALTIME_ALLOWED_ORIGINS", "https://screen.example.com")
	cfg, err = Load(logger.NewNop())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cfg.Realtime.AllowedWSOrigins) != 1 || cfg.Realtime.AllowedWSOrigins[0] != "https://screen.example.com" {
		t.Fatalf("expected explicit websocket origins, got %v", cfg.Realtime.AllowedWSOrigins)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REALTIME_DRIVER", "kafka")

	if _, err := Load(logger.NewNop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	contents := "HTTP_PORT=9090\nSTORAGE_BUCKET=\"photos\"\nREALTIME_PING_INTERVAL=5s\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(contents), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("REALTIME_DRIVER", "redis")
	t.Setenv("STORAGE_BUCKET", "")
	t.Setenv("REALTIME_PING_INTERVAL", "")
	os.Unsetenv("STORAGE_BUCKET")
	os.Unsetenv("REALTIME_PING_INTERVAL")

	cfg, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "7070" {
		t.Fatalf("env must win over .env, got %s", cfg.HTTPPort)
	}
	if cfg.Storage.Bucket != "photos" {
		t.Fatalf("expected bucket from .env, got %s", cfg.Storage.Bucket)
	}
	if cfg.Realtime.PingInterval != 5*time.Second {
		t.Fatalf("expected ping interval from .env, got %v", cfg.Realtime.PingInterval)
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	got := getEnvList("CORS_ORIGINS", nil)
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestGetDSN(t *testing.T) {
	cfg := DBConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", TimeZone: "UTC"}
	want := "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC"
	if got := cfg.GetDSN(); got != want {
		t.Fatalf("unexpected dsn %q", got)
	}
	cfg.DSN = "postgres://x"
	if got := cfg.GetDSN(); got != "postgres://x" {
		t.Fatalf("expected explicit dsn, got %q", got)
	}
}
