// Package config loads the storyloom configuration file. Settings are read
// once at startup and passed into constructors; nothing reads process
// environment at call time.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "storyloom.yaml"

const openRouterBaseURL = "https://openrouter.ai/api/v1"

type Config struct {
	Version  int    `yaml:"version"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the provider key.
	// The key itself never lives in the config file.
	APIKeyEnv string        `yaml:"api_key_env"`
	BaseURL   string        `yaml:"base_url"`
	Retries   int           `yaml:"retries"`
	LogLevel  string        `yaml:"log_level"`
	Storage   StorageConfig `yaml:"storage"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	DSN     string `yaml:"dsn"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version:   1,
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		APIKeyEnv: "OPENAI_API_KEY",
		Retries:   2,
		LogLevel:  "info",
		Storage: StorageConfig{
			Backend: "file",
			Dir:     "stories",
		},
	}
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.applyDefaults()

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Provider == "openrouter" {
		if c.BaseURL == "" {
			c.BaseURL = openRouterBaseURL
		}
		if c.APIKeyEnv == "OPENAI_API_KEY" {
			c.APIKeyEnv = "OPEN_ROUTER_API_KEY"
		}
	}
}

// APIKey resolves the provider key from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	switch cfg.Provider {
	case "openai", "openrouter":
	default:
		return fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return fmt.Errorf("model is required")
	}
	if strings.TrimSpace(cfg.APIKeyEnv) == "" {
		return fmt.Errorf("api_key_env is required")
	}
	if cfg.Retries < 0 {
		return fmt.Errorf("retries must not be negative")
	}

	switch cfg.Storage.Backend {
	case "file":
		if strings.TrimSpace(cfg.Storage.Dir) == "" {
			return fmt.Errorf("storage dir is required for the file backend")
		}
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("storage dsn is required for the %s backend", cfg.Storage.Backend)
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
	return nil
}
