package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadYAMLAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
catalog:
  bearer_token: abc123
storage:
  dir: /tmp/moviedb-test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Catalog.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Language != "en-US" {
		t.Errorf("Language = %q", cfg.Catalog.Language)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Storage.Backend, BackendFile)
	}
	if cfg.Storage.Slot != "watchlist" {
		t.Errorf("Slot = %q", cfg.Storage.Slot)
	}
	if cfg.Search.DebounceMs != 300 {
		t.Errorf("DebounceMs = %d, want 300", cfg.Search.DebounceMs)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[catalog]
bearer_token = "tok"
language = "fr-FR"

[storage]
backend = "sqlite"
dir = "/tmp/moviedb-test"

[search]
debounce_ms = 150

[logging]
level = "debug"
format = "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.Language != "fr-FR" {
		t.Errorf("Language = %q", cfg.Catalog.Language)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Search.DebounceMs != 150 {
		t.Errorf("DebounceMs = %d", cfg.Search.DebounceMs)
	}
	if opts := cfg.LoggingOptions(); opts.Level != "debug" || opts.Format != "json" {
		t.Errorf("LoggingOptions = %+v", opts)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("MOVIEDB_TEST_TOKEN", "from-env")
	path := writeConfig(t, "config.yaml", "catalog:\n  bearer_token: ${MOVIEDB_TEST_TOKEN}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.BearerToken != "from-env" {
		t.Errorf("BearerToken = %q, want from-env", cfg.Catalog.BearerToken)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"missing", "storage:\n  backend: file\n"},
		{"placeholder", "catalog:\n  bearer_token: your_token_here\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", tc.content))
			if err == nil || !strings.Contains(err.Error(), "bearer token is required") {
				t.Errorf("expected token error, got %v", err)
			}
		})
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, "config.yaml", "catalog:\n  bearer_token: x\nstorage:\n  backend: redis\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown storage backend")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/moviedb"); got != filepath.Join(home, "moviedb") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome changed absolute path: %q", got)
	}
}
