package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mcpflow/internal/config"
	"mcpflow/internal/conversation"
	"mcpflow/internal/mcpclient"
	"mcpflow/internal/orchestrator"
	"mcpflow/internal/plan"
	"mcpflow/internal/planner"
	"mcpflow/internal/resilience"
	"mcpflow/internal/validator"
	"mcpflow/pkg/logging"
	"os"
)

var askContextID string
var askFast bool

func init() {
	askCmd.Flags().StringVar(&configDir, "config-dir", "", "directory containing config.yaml (defaults to ~/.config/mcpflow)")
	askCmd.Flags().StringVar(&askContextID, "context-id", "", "conversation context id to append this turn to (defaults to a generated one-shot id)")
	askCmd.Flags().BoolVar(&askFast, "fast", false, "prefer the fast model tier over the reasoning tier, regardless of prompt shape")
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask <utterance>",
	Short: "Connect configured servers, plan one utterance, and execute it once",
	Args:  cobra.MinimumNArgs(1),
	RunE:  askE,
}

func askE(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelInfo, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	userLimiter := resilience.NewRateLimiter(resilience.UserRequestBudget)
	if err := userLimiter.TryAcquire(ctx); err != nil {
		return err
	}

	utterance, err := validator.Validate(strings.Join(args, " "))
	if err != nil {
		return err
	}

	dir := configDir
	if dir == "" {
		dir = GetDefaultConfigPathOrPanicSafe()
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	registry := mcpclient.NewRegistry()
	registry.Start(ctx, config.ServerDescriptors(cfg))
	defer registry.Shutdown()

	contextID := askContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}
	store := conversation.New()
	convCtx, err := store.Create(contextID)
	if err != nil {
		return err
	}
	store.Append(convCtx.ID, conversation.RoleUser, utterance)

	models, fallback := buildModels(cfg)
	plnr := planner.NewSized(models, fallback)

	catalog := registry.AllTools(ctx)
	intent, builtPlan, err := plnr.Plan(ctx, utterance, catalog, askFast)
	if err != nil {
		return err
	}

	if builtPlan == nil {
		reply := fmt.Sprintf("intent: %s, command: %v", intent.Kind, intent.Parameters["command"])
		store.Append(convCtx.ID, conversation.RoleAssistant, reply)
		fmt.Println(reply)
		return nil
	}

	if intent.SuggestedSteps != nil && intent.ServerID != "" {
		store.SetPreferredServer(convCtx.ID, intent.ServerID)
	}

	chainRunner := orchestrator.New(registry, resilience.NewMCPGuard())
	result := chainRunner.Execute(ctx, builtPlan)
	store.Append(convCtx.ID, conversation.RoleAssistant, fmt.Sprintf("success=%d failed=%d skipped=%d", result.SuccessCount, result.FailureCount, result.SkippedCount))
	printChainResult(result)
	return nil
}

func printChainResult(result plan.ChainResult) {
	for _, sr := range result.Steps {
		status := "ok"
		switch {
		case sr.Failure == plan.FailureSkippedDependency:
			status = "skipped"
		case sr.Failure == plan.FailureError:
			status = "failed: " + sr.Message
		}
		fmt.Printf("step %d (%s): %s\n", sr.Step.Number, sr.Step.Action, status)
	}
	fmt.Printf("success=%d failed=%d skipped=%d\n", result.SuccessCount, result.FailureCount, result.SkippedCount)
}
