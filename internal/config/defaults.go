package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4245,
			Host: "localhost",
		},
		Catalog: CatalogConfig{
			TimeoutSeconds: 10,
		},
		Reports: ReportsConfig{
			Dir:       "./reports",
			ChartsDir: "./charts",
		},
		Viewer: ViewerConfig{
			Scheme:         "manifest",
			QuickSymbols:   []string{"AAPL", "000001.SZ", "TSLA"},
			ErrorDisplayMs: 3000,
		},
		Session: SessionConfig{
			TTLMinutes:  30,
			MaxSessions: 1000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "text",
			Outputs: []string{"console"},
		},
	}
}
