// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"

	defaultShutdownTimeout = 10 * time.Second
	defaultStorageKey      = "theme.current"
	defaultHistorySize     = 20
	defaultRefreshCron     = "0 */6 * * *"
	defaultImportLimit     = 30
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type ThemeConfig struct {
	StorageKey  string `yaml:"storage_key"`
	HistorySize int    `yaml:"history_size"`
	// RemotePresets are fetched by the scheduler and offered next to the
	// built-in catalog.
	RemotePresets      []string `yaml:"remote_presets"`
	RefreshCron        string   `yaml:"refresh_cron"`
	ImportLimitPerHour int      `yaml:"import_limit_per_hour"`
}

type Config struct {
	App struct {
		Name            string        `yaml:"name"`
		Environment     string        `yaml:"environment"`
		Port            int           `yaml:"port"`
		BaseURL         string        `yaml:"base_url"`
		TrustProxy      bool          `yaml:"trust_proxy"` // key rate limits on X-Forwarded-For
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Theme ThemeConfig `yaml:"theme"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML, applies defaults and environment overrides, then
// validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.ShutdownTimeout == 0 {
		c.App.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Theme.StorageKey == "" {
		c.Theme.StorageKey = defaultStorageKey
	}
	if c.Theme.HistorySize == 0 {
		c.Theme.HistorySize = defaultHistorySize
	}
	if c.Theme.RefreshCron == "" {
		c.Theme.RefreshCron = defaultRefreshCron
	}
	if c.Theme.ImportLimitPerHour == 0 {
		c.Theme.ImportLimitPerHour = defaultImportLimit
	}
}

func (c *Config) applyEnv() error {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.App.Port = parsed
	}
	if env := strings.TrimSpace(os.Getenv("ENVIRONMENT")); env != "" {
		c.App.Environment = env
	}
	if filename := strings.TrimSpace(os.Getenv("DATABASE_FILENAME")); filename != "" {
		c.Database.Filename = filename
	}
	if key := strings.TrimSpace(os.Getenv("THEME_STORAGE_KEY")); key != "" {
		c.Theme.StorageKey = key
	}
	return nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app port must be between 1 and 65535, got %d", c.App.Port)
	}
	if c.App.BaseURL != "" {
		parsed, err := url.Parse(c.App.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("app base_url must be an absolute URL, got %q", c.App.BaseURL)
		}
	}
	if c.App.ShutdownTimeout < 0 {
		return fmt.Errorf("app shutdown_timeout must not be negative")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	// Validate based on database driver
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Theme.HistorySize < 0 {
		return fmt.Errorf("theme history_size must not be negative")
	}
	if c.Theme.ImportLimitPerHour < 0 {
		return fmt.Errorf("theme import_limit_per_hour must not be negative")
	}
	if _, err := cron.ParseStandard(c.Theme.RefreshCron); err != nil {
		return fmt.Errorf("theme refresh_cron %q is invalid: %w", c.Theme.RefreshCron, err)
	}
	for _, raw := range c.Theme.RemotePresets {
		parsed, err := url.Parse(raw)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("theme remote preset %q must be an http(s) URL", raw)
		}
	}

	return nil
}

// IsDevelopment reports whether console logging and debug output should be
// enabled.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "" || c.App.Environment == "development"
}
