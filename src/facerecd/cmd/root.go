package cmd

import (
	"log/slog"
	"os"

	"github.com/q-controller/facerecd/src/pkg/logging"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "facerecd",
	Short: "Stores uploaded images and answers with their precomputed face recognition result",
}

func Execute() {
	slog.SetDefault(logging.CreateLogger(logging.LevelFromEnv(), os.Getenv("LOG_FORMAT")))
	err := rootCmd.Execute()
	if err != nil {
		slog.Error("failed to execute command", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("env-file", "e", ".env", "Path to a dotenv file preloaded into the environment")
}
