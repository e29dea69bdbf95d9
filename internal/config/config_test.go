package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizo/internal/config"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  api_base_url: https://quiz.example
  ws_base_url: wss://quiz.example
reconnect:
  initial_backoff: 250ms
  max_backoff: 30s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.APIBaseURL != "https://quiz.example" || cfg.Server.WSBaseURL != "wss://quiz.example" {
		t.Fatalf("unexpected endpoints: %+v", cfg.Server)
	}
	if cfg.Reconnect.InitialBackoff != "250ms" {
		t.Fatalf("unexpected backoff: %+v", cfg.Reconnect)
	}
	if len(cfg.Client.Avatars) == 0 || cfg.Client.HostAvatar == "" {
		t.Fatalf("avatar defaults must survive a partial config: %+v", cfg.Client)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if cfg.Server.APIBaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("expected defaults alongside the error, got %+v", cfg.Server)
	}
}

func TestDuration(t *testing.T) {
	if got := config.Duration("", time.Second); got != time.Second {
		t.Fatalf("empty string must fall back, got %v", got)
	}
	if got := config.Duration("garbage", time.Second); got != time.Second {
		t.Fatalf("unparseable string must fall back, got %v", got)
	}
	if got := config.Duration("2s", time.Second); got != 2*time.Second {
		t.Fatalf("expected 2s, got %v", got)
	}
}
