package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/pokedex/internal/config"
	"github.com/jonathan/pokedex/internal/logging"
)

// loadConfig layers defaults, --config, the environment and any flags the
// caller marked as changed, then validates the result.
func loadConfig(cmd *cobra.Command, override func(cfg *config.Config)) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	return logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
}
