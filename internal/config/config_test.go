package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dsiemon2/eventvote/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "http://localhost:8080" {
		t.Errorf("expected default base URL, got %s", cfg.Server.BaseURL)
	}
	if cfg.Storage.Path != "eventvote.db" {
		t.Errorf("expected default database path, got %s", cfg.Storage.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.HTTP {
		t.Error("expected HTTP logging off by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EVENTVOTE_SERVER_PORT", "9090")
	t.Setenv("EVENTVOTE_STORAGE_PATH", "/tmp/votes.db")
	t.Setenv("EVENTVOTE_LOGGING_LEVEL", "debug")
	t.Setenv("EVENTVOTE_LOGGING_HTTP", "true")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090 from env, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Path != "/tmp/votes.db" {
		t.Errorf("expected env database path, got %s", cfg.Storage.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug log level, got %s", cfg.Logging.Level)
	}
	if !cfg.Logging.HTTP {
		t.Error("expected HTTP logging on from env")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventvote.yaml")
	raw := []byte("server:\n  port: 3000\n  base_url: https://vote.example.com/\nlogging:\n  level: warn\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected port 3000 from file, got %d", cfg.Server.Port)
	}
	// Trailing slash is stripped so QR URLs join cleanly
	if cfg.Server.BaseURL != "https://vote.example.com" {
		t.Errorf("expected trimmed base URL, got %s", cfg.Server.BaseURL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected warn log level, got %s", cfg.Logging.Level)
	}
	// Keys absent from the file keep their defaults
	if cfg.Storage.Path != "eventvote.db" {
		t.Errorf("expected default database path, got %s", cfg.Storage.Path)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected missing config file to be tolerated, got %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected defaults, got port %d", cfg.Server.Port)
	}
}
