package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CATALYST_HOME", home)
	for _, key := range []string{
		"CATALYST_API_URL", "CATALYST_API_TIMEOUT", "CATALYST_API_RETRIES",
		"CATALYST_WS_URL", "CATALYST_WS_RECONNECT", "CATALYST_WS_MAX_RECONNECTS",
		"CATALYST_ENABLE_REALTIME", "CATALYST_ENABLE_NOTIFICATIONS", "CATALYST_ENABLE_ANALYTICS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000/api" {
		t.Fatalf("unexpected api url %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 30*time.Second || cfg.APIRetries != 3 {
		t.Fatalf("unexpected api settings %v/%d", cfg.APITimeout, cfg.APIRetries)
	}
	if cfg.WSURL != "ws://localhost:8000/ws" || cfg.WSReconnect != 5*time.Second || cfg.WSMaxReconnects != 10 {
		t.Fatalf("unexpected ws settings %q/%v/%d", cfg.WSURL, cfg.WSReconnect, cfg.WSMaxReconnects)
	}
	if cfg.Features != (Features{}) {
		t.Fatalf("feature flags must default off, got %+v", cfg.Features)
	}
	if cfg.CatalystDataDir != filepath.Join(home, CatalystDir) {
		t.Fatalf("unexpected data dir %q", cfg.CatalystDataDir)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CATALYST_HOME", t.TempDir())
	t.Setenv("CATALYST_API_URL", "https://api.example.com/v1")
	t.Setenv("CATALYST_API_TIMEOUT", "10s")
	t.Setenv("CATALYST_API_RETRIES", "5")
	t.Setenv("CATALYST_WS_RECONNECT", "2500")
	t.Setenv("CATALYST_ENABLE_REALTIME", "TRUE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com/v1" {
		t.Fatalf("unexpected api url %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.APITimeout)
	}
	if cfg.APIRetries != 5 {
		t.Fatalf("unexpected retries %d", cfg.APIRetries)
	}
	// Bare numbers read as milliseconds.
	if cfg.WSReconnect != 2500*time.Millisecond {
		t.Fatalf("unexpected reconnect %v", cfg.WSReconnect)
	}
	if !cfg.Features.RealtimeUpdates {
		t.Fatalf("realtime flag should parse case-insensitively")
	}
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("CATALYST_HOME", t.TempDir())
	t.Setenv("CATALYST_API_TIMEOUT", "soon")
	t.Setenv("CATALYST_API_RETRIES", "-2")
	t.Setenv("CATALYST_ENABLE_REALTIME", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("bad duration must fall back, got %v", cfg.APITimeout)
	}
	if cfg.APIRetries != 3 {
		t.Fatalf("negative retries must fall back, got %d", cfg.APIRetries)
	}
	if cfg.Features.RealtimeUpdates {
		t.Fatalf(`only "true" enables a flag`)
	}
}

func TestInitCatalystDir(t *testing.T) {
	base := t.TempDir()
	if err := InitCatalystDir(base); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, dir := range []string{
		filepath.Join(base, CatalystDir, "logs"),
		filepath.Join(base, CatalystDir, "accounts"),
	} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}

	// Creating over an existing structure is a no-op.
	if err := InitCatalystDir(base); err != nil {
		t.Fatalf("re-init: %v", err)
	}
}

func TestPaths(t *testing.T) {
	cfg := &Config{CatalystDataDir: "/data/.catalyst"}
	if got := cfg.SessionPath(); got != filepath.Join("/data/.catalyst", "session.json") {
		t.Fatalf("session path %q", got)
	}
	if got := cfg.AccountsPath(); got != filepath.Join("/data/.catalyst", "accounts", "accounts.json") {
		t.Fatalf("accounts path %q", got)
	}
	if got := cfg.SecretPath(); got != filepath.Join("/data/.catalyst", "accounts", "secret") {
		t.Fatalf("secret path %q", got)
	}
	if got := cfg.LogsDir(); got != filepath.Join("/data/.catalyst", "logs") {
		t.Fatalf("logs dir %q", got)
	}
}
