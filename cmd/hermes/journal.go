package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"polyglot-hq/hermes/pkg/cli"
	"polyglot-hq/hermes/pkg/config"
	"polyglot-hq/hermes/pkg/journal"
	"polyglot-hq/hermes/pkg/journal/retention"
)

var journalFlags struct {
	tenant    string
	provider  string
	timeRange string
	days      int
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect and prune the usage journal",
	Long: `Inspect and prune the usage journal.

The journal records one row per completed translation: provider, language
pair, character count, latency, cost, and outcome. Source text is never
stored.

Examples:
  # Aggregate counts and spend
  hermes journal stats

  # Stats for one tenant within a time range
  hermes journal stats --tenant acme --time-range "2026-08-01T00:00:00Z/2026-08-25T00:00:00Z"

  # Remove entries older than 30 days
  hermes journal prune --days 30`,
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate journal statistics",
	RunE:  journalStats,
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove entries older than the retention period",
	RunE:  journalPrune,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalStatsCmd, journalPruneCmd)

	journalStatsCmd.Flags().StringVar(&journalFlags.tenant, "tenant", "", "filter by tenant")
	journalStatsCmd.Flags().StringVar(&journalFlags.provider, "provider", "", "filter by provider")
	journalStatsCmd.Flags().StringVar(&journalFlags.timeRange, "time-range", "", "RFC3339 interval (start/end)")

	journalPruneCmd.Flags().IntVar(&journalFlags.days, "days", 0, "retention period in days (defaults to the configured value)")
}

// openJournalStorage opens the journal storage from the config file.
func openJournalStorage() (journal.Storage, *config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	store, err := buildJournalStorage(cfg)
	if err != nil {
		return nil, nil, cli.NewCommandError("journal", err)
	}
	return store, cfg, nil
}

// parseTimeRange parses "start/end" as two RFC3339 instants.
func parseTimeRange(s string) (*time.Time, *time.Time, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("invalid time range format (expected: start/end)")
	}
	since, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid start time: %w", err)
	}
	until, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid end time: %w", err)
	}
	return &since, &until, nil
}

func journalStats(cmd *cobra.Command, args []string) error {
	store, _, err := openJournalStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	q := &journal.Query{
		Tenant:   journalFlags.tenant,
		Provider: journalFlags.provider,
	}
	if journalFlags.timeRange != "" {
		q.Since, q.Until, err = parseTimeRange(journalFlags.timeRange)
		if err != nil {
			return err
		}
	}

	ctx := context.Background()
	total, err := store.Count(ctx, q)
	if err != nil {
		return cli.NewCommandError("journal stats", err)
	}

	success := true
	okQuery := *q
	okQuery.Success = &success
	succeeded, err := store.Count(ctx, &okQuery)
	if err != nil {
		return cli.NewCommandError("journal stats", err)
	}

	// Spend, latency, and per-provider counts come from a bounded scan of
	// the newest entries.
	scan := *q
	scan.Limit = 10000
	entries, err := store.Query(ctx, &scan)
	if err != nil {
		return cli.NewCommandError("journal stats", err)
	}

	var cost float64
	var latencySum int64
	var cached int64
	perProvider := make(map[string]int64)
	for _, e := range entries {
		cost += e.Cost
		latencySum += e.LatencyMS
		if e.Cached {
			cached++
		}
		if e.Provider != "" {
			perProvider[e.Provider]++
		}
	}

	fmt.Printf("Entries: %d (%d succeeded, %d failed)\n", total, succeeded, total-succeeded)
	if len(entries) > 0 {
		fmt.Printf("Sampled %d newest entries:\n", len(entries))
		fmt.Printf("  Spend: $%.4f\n", cost)
		fmt.Printf("  Cache hits: %d\n", cached)
		fmt.Printf("  Mean latency: %dms\n", latencySum/int64(len(entries)))
		for provider, n := range perProvider {
			fmt.Printf("  %s: %d requests\n", provider, n)
		}
	}
	return nil
}

func journalPrune(cmd *cobra.Command, args []string) error {
	store, cfg, err := openJournalStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	days := journalFlags.days
	if days == 0 {
		days = cfg.Journal.Retention.Days
	}
	if days <= 0 {
		return fmt.Errorf("retention period not set; pass --days or configure journal.retention.days")
	}

	pruner := retention.NewPruner(store, &retention.Config{RetentionDays: days})
	removed, err := pruner.Prune(context.Background())
	if err != nil {
		return cli.NewCommandError("journal prune", err)
	}

	fmt.Printf("✓ Removed %d entries older than %d days\n", removed, days)
	return nil
}
