package main

import (
	"context"
	"fmt"

	"storyloom/internal/config"
	"storyloom/internal/engine"
	"storyloom/internal/oracle"
	"storyloom/internal/session"
	"storyloom/internal/session/file"
	"storyloom/internal/session/postgres"
	"storyloom/internal/session/sqlite"
)

func openStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Storage.Backend {
	case "file":
		return file.New(cfg.Storage.Dir)
	case "sqlite":
		return sqlite.New(ctx, cfg.Storage.DSN)
	case "postgres":
		return postgres.New(ctx, cfg.Storage.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}

func newEngine(cfg *config.Config) (*engine.Engine, error) {
	key := cfg.APIKey()
	if key == "" {
		return nil, fmt.Errorf("%s is not set", cfg.APIKeyEnv)
	}
	return engine.New(oracle.NewOpenAI(oracle.Options{
		APIKey:  key,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Retries: cfg.Retries,
	})), nil
}
