package cmd

import (
	"fmt"
	"log/slog"

	"github.com/q-controller/facerecd/src/pkg/config"
	"github.com/q-controller/facerecd/src/pkg/logging"
	"github.com/spf13/cobra"
)

// loadConfig reads the environment (after preloading --env-file) and resets the
// default logger to the configured level and format. The env file is only
// required when the flag was given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, envFileErr := cmd.Flags().GetString("env-file")
	if envFileErr != nil {
		return nil, fmt.Errorf("failed to get env-file: %w", envFileErr)
	}

	cfg, cfgErr := config.Load(envFile, cmd.Flags().Changed("env-file"))
	if cfgErr != nil {
		return nil, cfgErr
	}

	slog.SetDefault(logging.CreateLogger(logging.LevelFromString(cfg.LogLevel), cfg.LogFormat))
	slog.Debug("Read config", "config", cfg)
	return cfg, nil
}
