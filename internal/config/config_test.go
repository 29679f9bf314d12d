package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Turn.Enabled {
		t.Error("expected turn disabled by default")
	}
	if cfg.Turn.Realm != "collab.local" {
		t.Errorf("expected default realm collab.local, got %s", cfg.Turn.Realm)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  addr: ":9090"
turn:
  enabled: true
  address: "0.0.0.0:3479"
  realm: "example.org"
  username: "relay"
  password: "secret"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %s", cfg.Server.Addr)
	}
	if !cfg.Turn.Enabled {
		t.Error("expected turn enabled")
	}
	if cfg.Turn.Username != "relay" || cfg.Turn.Password != "secret" {
		t.Errorf("unexpected turn credentials: %s/%s", cfg.Turn.Username, cfg.Turn.Password)
	}
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("COLLAB_SERVER_ADDR", ":7070")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("expected env addr :7070, got %s", cfg.Server.Addr)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
