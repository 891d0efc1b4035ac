package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"storyloom/internal/config"
	"storyloom/internal/logging"
)

var configPath string

func main() {
	// A missing .env is fine; deployments may set the environment directly.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "storyloom",
		Short: "Interactive multi-agent storytelling",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the config file")
	root.AddCommand(newCmd())
	root.AddCommand(playCmd())
	root.AddCommand(sessionsCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel)
	return cfg, nil
}
