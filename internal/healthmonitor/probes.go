package healthmonitor

import (
	"context"

	"mcpflow/internal/languagemodel"
	"mcpflow/internal/mcpclient"
)

// ServerIndicator builds a composite-probe Indicator for one registered
// MCP server, backed by Connection.Ping.
func ServerIndicator(reg *mcpclient.Registry, serverID string) Indicator {
	return IndicatorFunc{
		IndicatorName: "server:" + serverID,
		Fn: func(ctx context.Context) (bool, string, error) {
			conn, ok := reg.Get(serverID)
			if !ok {
				return false, "not registered", nil
			}
			if conn.Ping(ctx) {
				return true, "", nil
			}
			return false, "ping failed", nil
		},
	}
}

// LanguageModelIndicator builds a composite-probe Indicator that treats
// the model as healthy whenever it completes a trivial prompt.
func LanguageModelIndicator(model languagemodel.LanguageModel) Indicator {
	return IndicatorFunc{
		IndicatorName: "language-model",
		Fn: func(ctx context.Context) (bool, string, error) {
			if _, err := model.Complete(ctx, "ping"); err != nil {
				return false, err.Error(), nil
			}
			return true, "", nil
		},
	}
}

// NewQuickProbe builds the 1-minute language-model-only connectivity
// check — a narrower check than LanguageModelIndicator's
// composite-probe membership, run far more often.
func NewQuickProbe(model languagemodel.LanguageModel) func(ctx context.Context) (bool, string, error) {
	return func(ctx context.Context) (bool, string, error) {
		if _, err := model.Complete(ctx, "ping"); err != nil {
			return false, err.Error(), nil
		}
		return true, "reachable", nil
	}
}
