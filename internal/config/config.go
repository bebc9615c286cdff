package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Catalog CatalogConfig `toml:"catalog"`
	Reports ReportsConfig `toml:"reports"`
	Viewer  ViewerConfig  `toml:"viewer"`
	Session SessionConfig `toml:"session"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// CatalogConfig locates the report catalog produced by the generator.
type CatalogConfig struct {
	URL            string `toml:"url"`             // empty = <base url>/reports/reports.json
	TimeoutSeconds int    `toml:"timeout_seconds"` // HTTP client timeout for catalog and report fetches
}

// ReportsConfig points at the generator's output directory.
type ReportsConfig struct {
	Dir       string `toml:"dir"`        // served under /reports/
	ChartsDir string `toml:"charts_dir"` // served under /charts/
}

// ViewerConfig contains controller settings.
type ViewerConfig struct {
	Scheme         string   `toml:"scheme"`          // "manifest" or "latest"
	ContentPattern string   `toml:"content_pattern"` // overrides the scheme's content locator
	ChartPattern   string   `toml:"chart_pattern"`   // overrides the scheme's chart locator
	QuickSymbols   []string `toml:"quick_symbols"`
	ErrorDisplayMs int      `toml:"error_display_ms"`
}

// SessionConfig bounds per-browser controller state.
type SessionConfig struct {
	TTLMinutes  int `toml:"ttl_minutes"`
	MaxSessions int `toml:"max_sessions"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies VIRE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("VIRE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("VIRE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if url := os.Getenv("VIRE_CATALOG_URL"); url != "" {
		config.Catalog.URL = url
	}
	if dir := os.Getenv("VIRE_REPORTS_DIR"); dir != "" {
		config.Reports.Dir = dir
	}
	if scheme := os.Getenv("VIRE_VIEWER_SCHEME"); scheme != "" {
		config.Viewer.Scheme = scheme
	}
	if level := os.Getenv("VIRE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("VIRE_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate reports every invalid or missing setting. An empty slice means
// the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	switch c.Viewer.Scheme {
	case "manifest", "latest":
	default:
		issues = append(issues, fmt.Sprintf("viewer.scheme must be \"manifest\" or \"latest\" (got %q)", c.Viewer.Scheme))
	}
	if strings.TrimSpace(c.Reports.Dir) == "" {
		issues = append(issues, "reports.dir is required")
	}
	if c.Viewer.ErrorDisplayMs < 0 {
		issues = append(issues, "viewer.error_display_ms must not be negative")
	}
	if c.Session.MaxSessions <= 0 {
		issues = append(issues, "session.max_sessions must be positive")
	}

	return issues
}

// BaseURL returns the portal's own address.
func (c *Config) BaseURL() string {
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}

// CatalogURL returns the configured catalog location, defaulting to the
// catalog served from the portal's own reports directory.
func (c *Config) CatalogURL() string {
	if c.Catalog.URL != "" {
		return c.Catalog.URL
	}
	return c.BaseURL() + "/reports/reports.json"
}

// FetchTimeout returns the HTTP timeout for catalog and report fetches.
func (c *Config) FetchTimeout() time.Duration {
	if c.Catalog.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

// ErrorDisplay returns how long error messages stay visible.
func (c *Config) ErrorDisplay() time.Duration {
	if c.Viewer.ErrorDisplayMs <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.Viewer.ErrorDisplayMs) * time.Millisecond
}

// SessionTTL returns the idle lifetime of a browser session.
func (c *Config) SessionTTL() time.Duration {
	if c.Session.TTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}
