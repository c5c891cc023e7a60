// Hermes is a multi-provider translation gateway.
//
// It exposes a single HTTP API over several machine translation backends,
// providing:
//   - Strategy-based provider selection (cost, quality, speed, balanced)
//   - Health monitoring with automatic failover between backends
//   - Response caching keyed by text and language pair
//   - Usage journaling and retention for cost accounting
//
// Usage:
//
//	# Start the gateway with the default configuration
//	hermes run
//
//	# Start with a custom configuration file
//	hermes run --config /etc/hermes/config.yaml
//
//	# Validate a configuration file without starting
//	hermes validate
//
//	# List the built-in provider backends
//	hermes providers
//
//	# Manage stored credentials
//	hermes credentials set --tenant acme --provider deepl --credential "..."
//
//	# Inspect or prune the usage journal
//	hermes journal stats
package main

func main() {
	Execute()
}
