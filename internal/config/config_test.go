package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 4245 {
		t.Errorf("expected default port 4245, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
	if cfg.Viewer.Scheme != "manifest" {
		t.Errorf("expected default scheme manifest, got %s", cfg.Viewer.Scheme)
	}
	if len(cfg.Viewer.QuickSymbols) != 3 || cfg.Viewer.QuickSymbols[0] != "AAPL" {
		t.Errorf("unexpected default quick symbols: %v", cfg.Viewer.QuickSymbols)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("default config should validate, got %v", issues)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 4245 {
		t.Errorf("expected default port 4245, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
[server]
port = 9090
host = "0.0.0.0"

[catalog]
url = "http://reports.internal/reports.json"
timeout_seconds = 5

[reports]
dir = "/srv/reports"

[viewer]
scheme = "latest"
quick_symbols = ["TSLA"]
error_display_ms = 1500

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.CatalogURL() != "http://reports.internal/reports.json" {
		t.Errorf("unexpected catalog url %s", cfg.CatalogURL())
	}
	if cfg.FetchTimeout() != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.FetchTimeout())
	}
	if cfg.Reports.Dir != "/srv/reports" {
		t.Errorf("expected reports dir /srv/reports, got %s", cfg.Reports.Dir)
	}
	if cfg.Viewer.Scheme != "latest" {
		t.Errorf("expected scheme latest, got %s", cfg.Viewer.Scheme)
	}
	if len(cfg.Viewer.QuickSymbols) != 1 || cfg.Viewer.QuickSymbols[0] != "TSLA" {
		t.Errorf("expected quick symbols [TSLA], got %v", cfg.Viewer.QuickSymbols)
	}
	if cfg.ErrorDisplay() != 1500*time.Millisecond {
		t.Errorf("expected 1.5s error display, got %s", cfg.ErrorDisplay())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_MultipleFiles(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	if err := os.WriteFile(base, []byte("[server]\nport = 3000\nhost = \"base-host\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	override := filepath.Join(dir, "override.toml")
	if err := os.WriteFile(override, []byte("[server]\nport = 4000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("expected later file to win with port 4000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "base-host" {
		t.Errorf("expected host from base file, got %s", cfg.Server.Host)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/vire-reports.toml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[server\nport = "), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromFiles(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("VIRE_SERVER_PORT", "5555")
	t.Setenv("VIRE_CATALOG_URL", "http://example.com/catalog.json")
	t.Setenv("VIRE_REPORTS_DIR", "/data/reports")
	t.Setenv("VIRE_VIEWER_SCHEME", "latest")
	t.Setenv("VIRE_LOG_LEVEL", "warn")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 5555 {
		t.Errorf("expected port 5555, got %d", cfg.Server.Port)
	}
	if cfg.Catalog.URL != "http://example.com/catalog.json" {
		t.Errorf("unexpected catalog url %s", cfg.Catalog.URL)
	}
	if cfg.Reports.Dir != "/data/reports" {
		t.Errorf("unexpected reports dir %s", cfg.Reports.Dir)
	}
	if cfg.Viewer.Scheme != "latest" {
		t.Errorf("unexpected scheme %s", cfg.Viewer.Scheme)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("unexpected log level %s", cfg.Logging.Level)
	}
}

func TestApplyEnvOverrides_InvalidPortIgnored(t *testing.T) {
	t.Setenv("VIRE_SERVER_PORT", "not-a-port")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 4245 {
		t.Errorf("expected default port to survive invalid env, got %d", cfg.Server.Port)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, 8080, "0.0.0.0")

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected host 0.0.0.0, got %s", cfg.Server.Host)
	}

	ApplyFlagOverrides(cfg, 0, "")
	if cfg.Server.Port != 8080 || cfg.Server.Host != "0.0.0.0" {
		t.Error("zero-value flags must not override config")
	}
}

func TestValidate_ReportsEveryIssue(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.Port = 0
	cfg.Viewer.Scheme = "legacy"
	cfg.Reports.Dir = " "
	cfg.Session.MaxSessions = 0

	issues := cfg.Validate()
	if len(issues) != 4 {
		t.Fatalf("expected 4 issues, got %d: %v", len(issues), issues)
	}
}

func TestCatalogURL_DefaultsToOwnReportsDir(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 9000

	if got := cfg.CatalogURL(); got != "http://localhost:9000/reports/reports.json" {
		t.Errorf("unexpected catalog url %s", got)
	}
}

func TestDurations_FallBackWhenUnset(t *testing.T) {
	cfg := &Config{}
	if cfg.FetchTimeout() != 10*time.Second {
		t.Errorf("expected 10s fetch timeout, got %s", cfg.FetchTimeout())
	}
	if cfg.ErrorDisplay() != 3*time.Second {
		t.Errorf("expected 3s error display, got %s", cfg.ErrorDisplay())
	}
	if cfg.SessionTTL() != 30*time.Minute {
		t.Errorf("expected 30m session ttl, got %s", cfg.SessionTTL())
	}
}

func TestGetFullVersion(t *testing.T) {
	if !strings.Contains(GetFullVersion(), GetVersion()) {
		t.Errorf("full version %q should contain %q", GetFullVersion(), GetVersion())
	}
	info := VersionInfo()
	for _, key := range []string{"version", "build", "git_commit"} {
		if _, ok := info[key]; !ok {
			t.Errorf("missing %s in version info", key)
		}
	}
}
