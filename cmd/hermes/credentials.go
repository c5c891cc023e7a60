package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"polyglot-hq/hermes/pkg/cli"
	"polyglot-hq/hermes/pkg/config"
	"polyglot-hq/hermes/pkg/configstore"
)

var credentialsFlags struct {
	tenant     string
	provider   string
	credential string
	inactive   bool
	format     string
}

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage stored provider credentials",
	Long: `Manage per-tenant provider credentials in the SQLite credential store.

These commands operate on the store configured under credentials.sqlite;
they require the "sqlite" credentials backend. Deployments using the
in-memory backend configure credentials directly in the provider blocks.

Examples:
  # Store a credential
  hermes credentials set --tenant acme --provider deepl --credential "key..."

  # List a tenant's credentials (values are never printed)
  hermes credentials list --tenant acme

  # Remove a credential
  hermes credentials rm --tenant acme --provider deepl`,
}

var credentialsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store or replace a credential",
	RunE:  setCredential,
}

var credentialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a tenant's credentials",
	RunE:  listCredentials,
}

var credentialsRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove a credential",
	RunE:  removeCredential,
}

func init() {
	rootCmd.AddCommand(credentialsCmd)
	credentialsCmd.AddCommand(credentialsSetCmd, credentialsListCmd, credentialsRmCmd)

	credentialsCmd.PersistentFlags().StringVar(&credentialsFlags.tenant, "tenant", "", "tenant id")

	credentialsSetCmd.Flags().StringVar(&credentialsFlags.provider, "provider", "", "provider id")
	credentialsSetCmd.Flags().StringVar(&credentialsFlags.credential, "credential", "", "credential value")
	credentialsSetCmd.Flags().BoolVar(&credentialsFlags.inactive, "inactive", false, "store the credential without activating it")

	credentialsListCmd.Flags().StringVar(&credentialsFlags.format, "format", "text", "output format: text, json, csv")

	credentialsRmCmd.Flags().StringVar(&credentialsFlags.provider, "provider", "", "provider id")
}

// openCredentialStore opens the configured SQLite credential store.
func openCredentialStore() (configstore.Store, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if cfg.Credentials.Backend != "sqlite" {
		return nil, cli.NewConfigError("credentials.backend",
			"credential commands require the sqlite backend")
	}
	return configstore.NewSQLiteWithConfig(configstore.SQLiteConfig{
		Path:               cfg.Credentials.SQLite.Path,
		CheckpointInterval: cfg.Credentials.SQLite.CheckpointInterval,
		BusyTimeout:        cfg.Credentials.SQLite.BusyTimeout,
	})
}

func requireTenant() (string, error) {
	if credentialsFlags.tenant == "" {
		return "", fmt.Errorf("--tenant is required")
	}
	return credentialsFlags.tenant, nil
}

func setCredential(cmd *cobra.Command, args []string) error {
	tenant, err := requireTenant()
	if err != nil {
		return err
	}
	if credentialsFlags.provider == "" {
		return fmt.Errorf("--provider is required")
	}
	if credentialsFlags.credential == "" {
		return fmt.Errorf("--credential is required")
	}

	store, err := openCredentialStore()
	if err != nil {
		return err
	}
	defer store.Close()

	row := configstore.CredentialRow{
		TenantID:   tenant,
		ProviderID: credentialsFlags.provider,
		Credential: credentialsFlags.credential,
		Active:     !credentialsFlags.inactive,
	}
	if err := store.UpsertCredential(context.Background(), row); err != nil {
		return cli.NewCommandError("credentials set", err)
	}

	fmt.Printf("✓ Credential stored for %s/%s\n", tenant, credentialsFlags.provider)
	return nil
}

// credentialTable renders credential rows as CSV without the secret.
type credentialTable []configstore.CredentialRow

func (credentialTable) Headers() []string {
	return []string{"tenant", "provider", "active"}
}

func (t credentialTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, row := range t {
		rows[i] = []string{row.TenantID, row.ProviderID, fmt.Sprintf("%t", row.Active)}
	}
	return rows
}

func listCredentials(cmd *cobra.Command, args []string) error {
	tenant, err := requireTenant()
	if err != nil {
		return err
	}

	store, err := openCredentialStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.ListCredentials(context.Background(), tenant)
	if err != nil {
		return cli.NewCommandError("credentials list", err)
	}

	switch cli.OutputFormat(credentialsFlags.format) {
	case cli.FormatJSON:
		// CredentialRow never serializes the credential value.
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, rows)
	case cli.FormatCSV:
		return cli.NewFormatter(cli.FormatCSV).FormatTo(os.Stdout, credentialTable(rows))
	default:
		fmt.Printf("%-16s %-10s %s\n", "TENANT", "PROVIDER", "ACTIVE")
		for _, row := range rows {
			fmt.Printf("%-16s %-10s %t\n", row.TenantID, row.ProviderID, row.Active)
		}
		return nil
	}
}

func removeCredential(cmd *cobra.Command, args []string) error {
	tenant, err := requireTenant()
	if err != nil {
		return err
	}
	if credentialsFlags.provider == "" {
		return fmt.Errorf("--provider is required")
	}

	store, err := openCredentialStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteCredential(context.Background(), tenant, credentialsFlags.provider); err != nil {
		return cli.NewCommandError("credentials rm", err)
	}

	fmt.Printf("✓ Credential removed for %s/%s\n", tenant, credentialsFlags.provider)
	return nil
}
