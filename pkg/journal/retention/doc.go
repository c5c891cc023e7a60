// Package retention prunes old journal entries.
//
// A Pruner deletes entries older than the configured retention period,
// either on demand through Prune or on a cron schedule through Start.
// A retention period of zero keeps entries forever.
//
// # Basic Usage
//
//	pruner := retention.NewPruner(storage, &retention.Config{
//	    RetentionDays: 90,
//	    PruneSchedule: "0 3 * * *", // daily at 3 AM
//	})
//	if err := pruner.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pruner.Stop()
//
// Scheduled runs wait for an in-flight job to finish on Stop, and
// canceling the context passed to Start shuts the scheduler down.
package retention
