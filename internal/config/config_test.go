package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
app:
  name: folio
  environment: development
  port: 8080
  base_url: http://localhost:8080
database:
  driver: sqlite
  filename: build/db/folio.db
theme:
  remote_presets:
    - https://themes.example.com/dusk.json
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.App.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown timeout = %v", cfg.App.ShutdownTimeout)
	}
	if cfg.Theme.StorageKey != "theme.current" {
		t.Fatalf("storage key = %q", cfg.Theme.StorageKey)
	}
	if cfg.Theme.HistorySize != 20 {
		t.Fatalf("history size = %d", cfg.Theme.HistorySize)
	}
	if cfg.Theme.RefreshCron != "0 */6 * * *" {
		t.Fatalf("refresh cron = %q", cfg.Theme.RefreshCron)
	}
	if len(cfg.Theme.RemotePresets) != 1 {
		t.Fatalf("remote presets = %v", cfg.Theme.RemotePresets)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("IsDevelopment() = false")
	}
}

func TestParseEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_FILENAME", "/var/lib/folio/folio.db")
	t.Setenv("THEME_STORAGE_KEY", "site.theme")

	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.App.Port != 9090 || cfg.App.Environment != "production" {
		t.Fatalf("app = %+v", cfg.App)
	}
	if cfg.Database.Filename != "/var/lib/folio/folio.db" {
		t.Fatalf("database filename = %q", cfg.Database.Filename)
	}
	if cfg.Theme.StorageKey != "site.theme" {
		t.Fatalf("storage key = %q", cfg.Theme.StorageKey)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("IsDevelopment() = true in production")
	}
}

func TestParseRejectsInvalidPortOverride(t *testing.T) {
	t.Setenv("PORT", "eighty")

	if _, err := Parse([]byte(validYAML)); err == nil {
		t.Fatalf("Parse() expected error for PORT=eighty")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		wantErr string
	}{
		{name: "missing_name", replace: [2]string{"name: folio", "name: \"\""}, wantErr: "app name"},
		{name: "bad_port", replace: [2]string{"port: 8080", "port: 70000"}, wantErr: "port"},
		{name: "relative_base_url", replace: [2]string{"base_url: http://localhost:8080", "base_url: /folio"}, wantErr: "base_url"},
		{name: "unknown_driver", replace: [2]string{"driver: sqlite", "driver: turso"}, wantErr: "unsupported database driver"},
		{name: "sqlite_without_file", replace: [2]string{"filename: build/db/folio.db", "filename: \"\""}, wantErr: "filename"},
		{name: "bad_cron", replace: [2]string{"theme:", "theme:\n  refresh_cron: every tuesday"}, wantErr: "refresh_cron"},
		{name: "bad_remote_url", replace: [2]string{"https://themes.example.com/dusk.json", "ftp://themes.example.com/dusk.json"}, wantErr: "remote preset"},
		{name: "negative_history", replace: [2]string{"theme:", "theme:\n  history_size: -1"}, wantErr: "history_size"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data := strings.Replace(validYAML, test.replace[0], test.replace[1], 1)
			_, err := Parse([]byte(data))
			if err == nil {
				t.Fatalf("Parse() expected error")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("Parse() error = %v, want it to mention %q", err, test.wantErr)
			}
		})
	}
}

func TestMemoryDriverNeedsNoFilename(t *testing.T) {
	data := strings.Replace(validYAML, "driver: sqlite", "driver: memory", 1)
	data = strings.Replace(data, "filename: build/db/folio.db", "filename: \"\"", 1)

	if _, err := Parse([]byte(data)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "app.yaml")
	if err := os.WriteFile(configPath, []byte(validYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("THEME_STORAGE_KEY=from.dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// Registered so the value godotenv sets is removed after the test.
	t.Setenv("THEME_STORAGE_KEY", "")
	os.Unsetenv("THEME_STORAGE_KEY")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Theme.StorageKey != "from.dotenv" {
		t.Fatalf("storage key = %q, want from.dotenv", cfg.Theme.StorageKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load() expected error for missing file")
	}
}

func TestParseTrustProxy(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.App.TrustProxy {
		t.Fatalf("TrustProxy should default to false")
	}

	data := strings.Replace(validYAML, "port: 8080", "port: 8080\n  trust_proxy: true", 1)
	cfg, err = Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !cfg.App.TrustProxy {
		t.Fatalf("TrustProxy = false, want true")
	}
}
