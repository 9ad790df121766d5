// Package main provides the entry point for the AI jobs tracker CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	devLogs    bool
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "jobs_tracker",
		Short:         "AI company jobs tracker",
		Long:          "Scrapes AI company career sites into job datasets, infers skills and salaries, and compares companies.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("JOBS_TRACKER_CONFIG"), "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("LOG_LEVEL"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&devLogs, "dev-logs", os.Getenv("LOG_FORMAT") == "console", "Human-readable console logs")
	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
