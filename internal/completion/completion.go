package completion

import (
	"fmt"
	"log/slog"

	"alcyxob/trainer-ai/internal/config"
	"alcyxob/trainer-ai/internal/planner"
)

// New returns the configured backend. Cortex runs on db, the same warehouse
// connection the repositories use.
func New(log *slog.Logger, cfg config.CompletionConfig, db Querier) (planner.Completer, error) {
	switch cfg.Backend {
	case config.BackendCortex:
		if db == nil {
			return nil, fmt.Errorf("cortex backend needs a warehouse connection")
		}
		return NewCortex(log, db), nil
	case config.BackendAnthropic:
		return NewAnthropic(log, cfg.AnthropicAPIKey, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown completion backend %q", cfg.Backend)
	}
}
