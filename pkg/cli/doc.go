/*
Package cli provides command-line utilities for the hermes command.

Output Formatting:

Command results render as text, JSON, or CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

CSV output works on [][]string row data or any type implementing the
Tabular interface.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
	// ctx is cancelled on the first signal; a second signal kills the
	// process through the default handler.
*/
package cli
