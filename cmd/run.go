package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mcpflow/internal/config"
	"mcpflow/internal/conversation"
	"mcpflow/internal/healthmonitor"
	"mcpflow/internal/languagemodel"
	"mcpflow/internal/mcpclient"
	"mcpflow/internal/resilience"
	"mcpflow/pkg/logging"
)

var configDir string

func init() {
	runCmd.Flags().StringVar(&configDir, "config-dir", "", "directory containing config.yaml (defaults to ~/.config/mcpflow)")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the multiplexer: connect configured servers and run the health monitor",
	RunE:  runE,
}

func runE(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelInfo, os.Stderr)

	dir := configDir
	if dir == "" {
		dir = GetDefaultConfigPathOrPanicSafe()
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	registry := mcpclient.NewRegistry()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry.Start(ctx, config.ServerDescriptors(cfg))
	defer registry.Shutdown()
	logging.Info("Bootstrap", "registry started with %d connection(s)", len(registry.IDs()))

	models, _ := buildModels(cfg)

	mcpGuard := resilience.NewMCPGuard()

	store := conversation.New()
	store.StartSweeper()
	defer store.Stop()

	monitor := buildHealthMonitor(registry, models[languagemodel.SizeDefault], mcpGuard)
	monitor.Start(ctx)
	defer monitor.Stop()

	logging.Info("Bootstrap", "mcpflow running, press Ctrl-C to stop")
	<-ctx.Done()
	logging.Info("Bootstrap", "shutting down")
	return nil
}

// buildModels constructs the pattern-matching fallback plus one Remote
// variant per model-size tier, so callers can route a request to the
// fast, default, or reasoning model via languagemodel.SelectSize. A tier
// whose config name is blank reuses AI.Model; a tier whose Remote fails
// to construct falls back to pattern-matching for that tier alone.
func buildModels(cfg config.Config) (map[languagemodel.Size]languagemodel.LanguageModel, languagemodel.LanguageModel) {
	defaultServerID := ""
	for id := range cfg.MCP.Servers {
		defaultServerID = id
		break
	}
	fallback := languagemodel.NewPatternMatching(defaultServerID)

	flat := map[languagemodel.Size]languagemodel.LanguageModel{
		languagemodel.SizeFast:      fallback,
		languagemodel.SizeDefault:   fallback,
		languagemodel.SizeReasoning: fallback,
	}
	if !cfg.AI.Enabled {
		return flat, fallback
	}

	apiKey := os.Getenv("MCPFLOW_AI_API_KEY")
	tierModels := map[languagemodel.Size]string{
		languagemodel.SizeFast:      firstNonEmpty(cfg.AI.FastModel, cfg.AI.Model),
		languagemodel.SizeDefault:   cfg.AI.Model,
		languagemodel.SizeReasoning: firstNonEmpty(cfg.AI.ReasoningModel, cfg.AI.Model),
	}

	models := make(map[languagemodel.Size]languagemodel.LanguageModel, len(tierModels))
	for size, modelName := range tierModels {
		remote, err := languagemodel.NewRemote(languagemodel.RemoteConfig{APIKey: apiKey, Model: modelName})
		if err != nil {
			logging.Warn("Bootstrap", "remote language model unavailable for %s tier (%s), using pattern-matching only", size, err)
			models[size] = fallback
			continue
		}
		models[size] = languagemodel.WithFallback{Primary: remote, Fallback: fallback}
	}
	return models, fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func buildHealthMonitor(registry *mcpclient.Registry, model languagemodel.LanguageModel, mcpGuard *resilience.Guard) *healthmonitor.Monitor {
	quick := healthmonitor.NewQuickProbe(model)
	resource := healthmonitor.NewResourceProbe(map[resilience.Endpoint]*resilience.Guard{
		resilience.EndpointMCP: mcpGuard,
	})
	monitor := healthmonitor.New(quick, resource)
	for _, id := range registry.IDs() {
		monitor.Register(healthmonitor.ServerIndicator(registry, id))
	}
	monitor.Register(healthmonitor.LanguageModelIndicator(model))
	return monitor
}

// GetDefaultConfigPathOrPanicSafe wraps GetDefaultConfigPathOrPanic so a
// missing home directory degrades to the working directory instead of
// crashing a long-running process at startup.
func GetDefaultConfigPathOrPanicSafe() (path string) {
	defer func() {
		if r := recover(); r != nil {
			path = "."
		}
	}()
	return config.GetDefaultConfigPathOrPanic()
}
