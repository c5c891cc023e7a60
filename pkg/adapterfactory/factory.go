// Package adapterfactory creates translation adapters by backend kind.
package adapterfactory

import (
	"fmt"
	"log/slog"

	"polyglot-hq/hermes/pkg/adapters"
	"polyglot-hq/hermes/pkg/adapters/claude"
	"polyglot-hq/hermes/pkg/adapters/deepl"
	"polyglot-hq/hermes/pkg/adapters/googlev2"
	"polyglot-hq/hermes/pkg/adapters/libre"
	"polyglot-hq/hermes/pkg/adapters/openai"
)

// New creates an adapter for the given backend kind.
//
// Supported kinds:
//   - "deepl": DeepL v2 REST API
//   - "claude": Anthropic messages API ("anthropic" is accepted as an alias)
//   - "openai": OpenAI chat completions
//   - "google": Google Cloud Translation v2 ("googlev2" is accepted)
//   - "libre": LibreTranslate ("libretranslate" is accepted)
//
// An empty kind falls back to the config ID, so a provider block named after
// its backend needs no explicit kind.
func New(kind string, config adapters.Config) (adapters.Adapter, error) {
	if kind == "" {
		kind = config.ID
	}

	slog.Debug("creating adapter",
		"id", config.ID,
		"kind", kind,
		"base_url", config.BaseURL,
	)

	var (
		adapter adapters.Adapter
		err     error
	)

	switch kind {
	case "deepl":
		adapter, err = deepl.New(config)

	case "claude", "anthropic":
		adapter, err = claude.New(config)

	case "openai":
		adapter, err = openai.New(config)

	case "google", "googlev2":
		adapter, err = googlev2.New(config)

	case "libre", "libretranslate":
		adapter, err = libre.New(config)

	default:
		return nil, &adapters.ConfigError{
			Provider: config.ID,
			Field:    "kind",
			Message:  fmt.Sprintf("unsupported backend kind: %q (supported: deepl, claude, openai, google, libre)", kind),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create adapter %q: %w", config.ID, err)
	}

	return adapter, nil
}
