package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// @title Trainer AI API
// @version 1.0
// @description Personal trainer API: client profiles, generated workout and meal plans, progress tracking.
// @contact.name API Support
// @contact.email support@example.com
// @host localhost:8080
// @BasePath /api/v1
func main() {
	os.Exit(run())
}

func run() int {
	var (
		verbose    bool
		configPath string
	)
	rootCmd := &cobra.Command{
		Use:           "trainer-ai",
		Short:         "AI personal trainer: workout and meal plan generation with progress tracking.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set debug logging level")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory holding config.yaml and .env")

	opts := &rootOptions{verbose: &verbose, configPath: &configPath}
	rootCmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newGenerateCmd(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// rootOptions are the persistent flags, read once a subcommand runs.
type rootOptions struct {
	verbose    *bool
	configPath *string
}

func newLogger(level string, verbose bool) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	if verbose {
		l = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      l,
		TimeFormat: time.Kitchen,
	}))
}
