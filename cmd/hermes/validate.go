package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"polyglot-hq/hermes/pkg/cli"
	"polyglot-hq/hermes/pkg/config"
)

var validateFlags struct {
	env bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a Hermes configuration file without starting the gateway.

The command loads the file, applies defaults and secret expansion, and runs
the same validation the server performs at startup. Every violation is
reported, not just the first.

Examples:
  # Validate the default config
  hermes validate

  # Validate a specific file
  hermes validate --config /etc/hermes/config.yaml

  # Include HERMES_* environment overrides in the validated result
  hermes validate --env`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.env, "env", false, "apply HERMES_* environment overrides before validating")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	load := config.Load
	if validateFlags.env {
		load = config.LoadWithEnvOverrides
	}

	cfg, err := load(cfgFile)
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	fmt.Printf("  Listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Tenant: %s\n", cfg.Tenant)
	fmt.Printf("  Default strategy: %s\n", cfg.Router.DefaultStrategy)
	fmt.Printf("  Providers: %d enabled\n", len(enabledProviderIDs(cfg)))
	fmt.Printf("  Cache backend: %s\n", cfg.Cache.Backend)
	if cfg.Journal.Enabled {
		fmt.Printf("  Journal: enabled (%s)\n", cfg.Journal.Backend)
	} else {
		fmt.Println("  Journal: disabled")
	}
	return nil
}
