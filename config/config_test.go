package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		// explicit path that does not exist is a read error, not a silent default
		t.Fatalf("expected error for missing explicit config file, got %+v", cfg)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Type != "sqlite" {
		t.Errorf("storage.type = %q, want sqlite", cfg.Storage.Type)
	}
	if cfg.Session.CartKey != "cart" || cfg.Session.OrdersKey != "orderHistory" {
		t.Errorf("session keys = %q/%q", cfg.Session.CartKey, cfg.Session.OrdersKey)
	}
	if cfg.Session.PersistencePolicy != "keep" {
		t.Errorf("persistence_policy = %q, want keep", cfg.Session.PersistencePolicy)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown_timeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Storage.Retry.InitialDelay != 50*time.Millisecond {
		t.Errorf("retry.initial_delay = %v", cfg.Storage.Retry.InitialDelay)
	}
	if cfg.Session.MaxOpen != 1000 || cfg.Session.IdleTimeout != 30*time.Minute {
		t.Errorf("session limits = %d/%v", cfg.Session.MaxOpen, cfg.Session.IdleTimeout)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("env = %q, want development", cfg.App.Env)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
app:
  env: production
storage:
  type: redis
  redis:
    addr: cache:6379
session:
  persistence_policy: rollback
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SCANORDER_SERVER_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Env != "production" || cfg.IsDevelopment() {
		t.Errorf("env = %q, want production", cfg.App.Env)
	}
	if cfg.Storage.Type != "redis" || cfg.Storage.Redis.Addr != "cache:6379" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Session.PersistencePolicy != "rollback" {
		t.Errorf("persistence_policy = %q", cfg.Session.PersistencePolicy)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("server.port = %q, want env override 9090", cfg.Server.Port)
	}
	if cfg.Session.CartKey != "cart" {
		t.Errorf("defaults lost when file is present: cart_key = %q", cfg.Session.CartKey)
	}
}
