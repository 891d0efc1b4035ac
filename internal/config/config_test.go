package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storyloom.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
version: 1
provider: openai
model: gpt-4o-mini
retries: 3
storage:
  backend: file
  dir: ./stories
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "gpt-4o-mini" || cfg.Retries != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.APIKeyEnv != "OPENAI_API_KEY" {
		t.Fatalf("expected default api_key_env, got %q", cfg.APIKeyEnv)
	}
}

func TestLoad_OpenRouterDefaults(t *testing.T) {
	path := writeConfig(t, `
version: 1
provider: openrouter
model: gpt-4o-mini
storage:
  backend: file
  dir: stories
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "https://openrouter.ai/api/v1" {
		t.Fatalf("expected openrouter base url, got %q", cfg.BaseURL)
	}
	if cfg.APIKeyEnv != "OPEN_ROUTER_API_KEY" {
		t.Fatalf("expected openrouter key env, got %q", cfg.APIKeyEnv)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad version":   "version: 2\nprovider: openai\nmodel: m\nstorage:\n  backend: file\n  dir: d\n",
		"bad provider":  "version: 1\nprovider: acme\nmodel: m\nstorage:\n  backend: file\n  dir: d\n",
		"no model":      "version: 1\nprovider: openai\nmodel: \"\"\nstorage:\n  backend: file\n  dir: d\n",
		"bad backend":   "version: 1\nprovider: openai\nmodel: m\nstorage:\n  backend: redis\n  dsn: x\n",
		"sqlite no dsn": "version: 1\nprovider: openai\nmodel: m\nstorage:\n  backend: sqlite\n",
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, contents)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load or default: %v", err)
	}
	if cfg.Storage.Backend != "file" || cfg.Storage.Dir != "stories" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Retries != 2 {
		t.Fatalf("expected 2 retries by default, got %d", cfg.Retries)
	}
}
