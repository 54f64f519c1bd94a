package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected base URL: %q", cfg.BaseURL)
	}
	if cfg.PollInterval != 2*time.Second || cfg.PollAttempts != 20 {
		t.Fatalf("unexpected poll defaults: %v / %d", cfg.PollInterval, cfg.PollAttempts)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviewdeck.yaml")
	contents := "base_url: http://backend:9000/\npoll_attempts: 5\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REVIEWDECK_POLL_INTERVAL", "500ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://backend:9000" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.PollAttempts != 5 {
		t.Fatalf("expected file value, got %d", cfg.PollAttempts)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Fatalf("expected env override, got %v", cfg.PollInterval)
	}
}

func TestLoadRejectsNonHTTPBaseURL(t *testing.T) {
	t.Setenv("REVIEWDECK_BASE_URL", "ftp://backend")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected validation error")
	}
}
