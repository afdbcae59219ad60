// ABOUTME: Tests for layered configuration loading
// ABOUTME: Verifies defaults, YAML file, environment, and flag precedence

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func writeConfigFile(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := load(context.Background(), Overrides{ConfigDir: dir}, envconfig.MapLookuper(nil))
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected default API URL %s, got %s", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout %s, got %s", DefaultTimeout, cfg.Timeout)
	}
	if cfg.Storage != StorageFile {
		t.Errorf("expected file storage, got %s", cfg.Storage)
	}
	if cfg.ConfigDir != dir {
		t.Errorf("expected config dir %s, got %s", dir, cfg.ConfigDir)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "api_url: http://api.flyair.test\ntimeout: 5s\nstorage: memory\n")

	cfg, err := load(context.Background(), Overrides{ConfigDir: dir}, envconfig.MapLookuper(nil))
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.APIURL != "http://api.flyair.test" {
		t.Errorf("expected API URL from file, got %s", cfg.APIURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout from file, got %s", cfg.Timeout)
	}
	if cfg.Storage != StorageMemory {
		t.Errorf("expected memory storage from file, got %s", cfg.Storage)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "api_url: http://api.flyair.test\n")

	env := envconfig.MapLookuper(map[string]string{
		"FLYAIR_API_URL":   "http://env.flyair.test/",
		"FLYAIR_LOG_LEVEL": "debug",
	})
	cfg, err := load(context.Background(), Overrides{ConfigDir: dir}, env)
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.APIURL != "http://env.flyair.test" {
		t.Errorf("expected env to override file and trailing slash trimmed, got %s", cfg.APIURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level from env, got %s", cfg.LogLevel)
	}
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	dir := t.TempDir()
	env := envconfig.MapLookuper(map[string]string{"FLYAIR_API_URL": "http://env.flyair.test"})

	cfg, err := load(context.Background(), Overrides{ConfigDir: dir, APIURL: "flag.flyair.test:8086"}, env)
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.APIURL != "http://flag.flyair.test:8086" {
		t.Errorf("expected flag to override env with scheme added, got %s", cfg.APIURL)
	}
}

func TestLoad_ConfigDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "storage: memory\n")
	env := envconfig.MapLookuper(map[string]string{"FLYAIR_CONFIG_DIR": dir})

	cfg, err := load(context.Background(), Overrides{}, env)
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if cfg.ConfigDir != dir {
		t.Errorf("expected config dir %s, got %s", dir, cfg.ConfigDir)
	}
	if cfg.Storage != StorageMemory {
		t.Errorf("expected config.yaml in env-provided dir to be read, got storage %s", cfg.Storage)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "api_url: [unclosed\n")

	_, err := load(context.Background(), Overrides{ConfigDir: dir}, envconfig.MapLookuper(nil))
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"redis storage", func(c *Config) { c.Storage = "redis://localhost:6379/0" }, false},
		{"unknown storage", func(c *Config) { c.Storage = "sqlite" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"empty url", func(c *Config) { c.APIURL = "" }, true},
		{"file storage without dir", func(c *Config) { c.ConfigDir = "" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Defaults()
			c.ConfigDir = "/tmp/flyair"
			tc.modify(&c)
			err := c.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/xdg", "flyair") {
		t.Errorf("expected /xdg/flyair, got %s", got)
	}
}
