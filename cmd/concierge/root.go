// cmd/concierge/root.go
package main

import (
	"github.com/spf13/cobra"

	"trip-concierge/internal/common/config"
	"trip-concierge/internal/common/logger"
)

const version = "0.1.0"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "Trip concierge - weather, shopping and taxi answers in one chat",
	Long: `Concierge routes each chat message to a multi-stop journey planner, a
weather/shopping/taxi chain, a single specialist agent, or the default
weather conversation, and replies with text or an adaptive card.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config YAML (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
}

// loadConfig reads configuration and builds the process logger.
func loadConfig() (*config.Config, logger.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	return cfg, log, nil
}
