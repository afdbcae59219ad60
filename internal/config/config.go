// ABOUTME: Layered configuration for the flyair CLI and TUI
// ABOUTME: Defaults, then config.yaml, then .env and FLYAIR_* environment, then flags

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL  = "http://localhost:8086"
	DefaultTimeout = 30 * time.Second

	// StorageFile keeps the session in <config-dir>/session.json.
	StorageFile = "file"
	// StorageMemory keeps the session for the lifetime of the process only.
	StorageMemory = "memory"

	configFileName = "config.yaml"
)

// Config holds runtime settings. Field tags drive both the YAML file and the
// environment layer.
type Config struct {
	APIURL    string        `yaml:"api_url" env:"FLYAIR_API_URL,overwrite"`
	ConfigDir string        `yaml:"-" env:"FLYAIR_CONFIG_DIR,overwrite"`
	Timeout   time.Duration `yaml:"timeout" env:"FLYAIR_TIMEOUT,overwrite"`
	Storage   string        `yaml:"storage" env:"FLYAIR_STORAGE,overwrite"`
	ProxyURL  string        `yaml:"proxy" env:"FLYAIR_ALL_PROXY,overwrite"`
	LogLevel  string        `yaml:"log_level" env:"FLYAIR_LOG_LEVEL,overwrite"`
	LogFormat string        `yaml:"log_format" env:"FLYAIR_LOG_FORMAT,overwrite"`
}

// Overrides carries values set explicitly on the command line. Empty fields
// are ignored.
type Overrides struct {
	APIURL    string
	ConfigDir string
	LogLevel  string
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		APIURL:    DefaultAPIURL,
		ConfigDir: DefaultConfigDir(),
		Timeout:   DefaultTimeout,
		Storage:   StorageFile,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load resolves the configuration. A missing config.yaml or .env is not an error.
func Load(ctx context.Context, o Overrides) (*Config, error) {
	return load(ctx, o, envconfig.OsLookuper())
}

func load(ctx context.Context, o Overrides, lookuper envconfig.Lookuper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := Defaults()

	dir := o.ConfigDir
	if dir == "" {
		if v, ok := lookuper.Lookup("FLYAIR_CONFIG_DIR"); ok && v != "" {
			dir = v
		}
	}
	if dir != "" {
		cfg.ConfigDir = dir
	}

	if err := cfg.readFile(filepath.Join(cfg.ConfigDir, configFileName)); err != nil {
		return nil, err
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if o.APIURL != "" {
		cfg.APIURL = o.APIURL
	}
	if o.ConfigDir != "" {
		cfg.ConfigDir = o.ConfigDir
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}

	cfg.APIURL = strings.TrimRight(ensureScheme(cfg.APIURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// readFile merges config.yaml into c when the file exists.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch {
	case c.Storage == StorageFile, c.Storage == StorageMemory:
	case strings.HasPrefix(c.Storage, "redis://"), strings.HasPrefix(c.Storage, "rediss://"):
	default:
		return fmt.Errorf("unsupported storage %q (want file, memory, or a redis:// URL)", c.Storage)
	}
	if c.Storage == StorageFile && c.ConfigDir == "" {
		return fmt.Errorf("config directory could not be determined; set FLYAIR_CONFIG_DIR")
	}
	return nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "flyair")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "flyair")
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
