package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hermes",
	Short: "Hermes - multi-provider translation gateway",
	Long: `Hermes is a translation gateway that routes requests across several
machine translation backends behind one HTTP API.

It provides:
  - Strategy-based provider selection (cost, quality, speed, balanced)
  - Health monitoring with automatic failover between backends
  - Response caching keyed by text and language pair
  - Usage journaling and retention for cost accounting

For more information, visit: https://github.com/polyglot-hq/hermes`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
