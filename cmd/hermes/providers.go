package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"polyglot-hq/hermes/pkg/cli"
	"polyglot-hq/hermes/pkg/routing"
)

var providersFlags struct {
	format string
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the built-in provider backends",
	Long: `List the built-in translation backends with their default routing
parameters: fallback priority, cost per character, quality score, and
concurrent dispatch cap.

Examples:
  # Human-readable table
  hermes providers

  # Machine-readable output
  hermes providers --format json
  hermes providers --format csv`,
	RunE: listProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().StringVar(&providersFlags.format, "format", "text", "output format: text, json, csv")
}

// providerRow is the serializable form of one backend's defaults.
type providerRow struct {
	ID           string  `json:"id"`
	Priority     int     `json:"priority"`
	CostPerChar  float64 `json:"cost_per_char"`
	QualityScore float64 `json:"quality_score"`
	MaxLoad      int64   `json:"max_load"`
}

// providerTable renders provider rows as CSV.
type providerTable []providerRow

func (providerTable) Headers() []string {
	return []string{"id", "priority", "cost_per_char", "quality_score", "max_load"}
}

func (t providerTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, p := range t {
		rows[i] = []string{
			p.ID,
			fmt.Sprintf("%d", p.Priority),
			fmt.Sprintf("%g", p.CostPerChar),
			fmt.Sprintf("%g", p.QualityScore),
			fmt.Sprintf("%d", p.MaxLoad),
		}
	}
	return rows
}

func listProviders(cmd *cobra.Command, args []string) error {
	table := make(providerTable, 0, len(routing.DefaultProviderIDs()))
	for _, id := range routing.DefaultProviderIDs() {
		params, _ := routing.DefaultParams(id)
		table = append(table, providerRow{
			ID:           id,
			Priority:     params.Priority,
			CostPerChar:  params.CostPerChar,
			QualityScore: params.QualityScore,
			MaxLoad:      params.MaxLoad,
		})
	}

	switch cli.OutputFormat(providersFlags.format) {
	case cli.FormatJSON:
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, table)
	case cli.FormatCSV:
		return cli.NewFormatter(cli.FormatCSV).FormatTo(os.Stdout, table)
	default:
		fmt.Printf("%-8s %-9s %-14s %-8s %s\n", "ID", "PRIORITY", "COST/CHAR", "QUALITY", "MAX LOAD")
		for _, p := range table {
			fmt.Printf("%-8s %-9d $%-13g %-8g %d\n",
				p.ID, p.Priority, p.CostPerChar, p.QualityScore, p.MaxLoad)
		}
		return nil
	}
}
