package orchestrator

import (
	"context"

	"mcpflow/internal/mcpclient"
	"mcpflow/internal/mcperr"
	"mcpflow/internal/plan"
	"mcpflow/internal/resilience"
	"mcpflow/pkg/logging"
)

// Registry is the subset of mcpclient.Registry the Orchestrator needs,
// narrowed to ease testing with a fake.
type Registry interface {
	CallTool(ctx context.Context, serverID, name string, arguments map[string]any) (mcpclient.ToolResult, error)
}

// Orchestrator executes Tool Plans against a Registry, gating every step
// through a shared MCP resilience Guard.
type Orchestrator struct {
	registry Registry
	guard    *resilience.Guard
}

// New builds an Orchestrator. guard is typically resilience.NewMCPGuard(),
// shared across every plan execution so the circuit breaker's sliding
// window reflects the whole process's tool-call traffic.
func New(registry Registry, guard *resilience.Guard) *Orchestrator {
	return &Orchestrator{registry: registry, guard: guard}
}

// Execute runs p to completion and returns the aggregate ChainResult.
// Because a Plan's Dependencies invariant only ever points at earlier
// step numbers (enforced at parse time by internal/planner), executing
// steps in ascending Number order is already a valid topological order —
// no separate scheduling pass is needed. Independent steps are not
// parallelized here; running steps with no outstanding dependencies
// concurrently is a valid alternative, but sequential execution keeps
// resilience-guard admission order easy to reason about.
func (o *Orchestrator) Execute(ctx context.Context, p *plan.Plan) plan.ChainResult {
	steps := make([]int, len(p.Steps))
	byNumber := make(map[int]plan.Step, len(p.Steps))
	dependsOn := make(map[int][]int, len(p.Steps))
	for i, s := range p.Steps {
		steps[i] = s.Number
		byNumber[s.Number] = s
		dependsOn[s.Number] = s.Dependencies
	}

	graph := newStepGraph(steps, dependsOn)
	subst := newSubstitutor()

	result := plan.ChainResult{Steps: make([]plan.StepResult, 0, len(p.Steps))}

	for _, n := range steps {
		step := byNumber[n]

		if graph.get(n) == stepSkipped {
			result.Steps = append(result.Steps, plan.StepResult{
				Step: step, Failure: plan.FailureSkippedDependency,
				Message: "skipped-due-to-dependency", Success: false,
			})
			result.SkippedCount++
			continue
		}
		if graph.anyDependencyUnsuccessful(n) {
			graph.set(n, stepSkipped)
			result.Steps = append(result.Steps, plan.StepResult{
				Step: step, Failure: plan.FailureSkippedDependency,
				Message: "skipped-due-to-dependency", Success: false,
			})
			result.SkippedCount++
			continue
		}

		params := subst.substitute(n, step.Parameters)

		var toolResult mcpclient.ToolResult
		callErr := o.guard.Call(ctx, func(ctx context.Context) error {
			var err error
			toolResult, err = o.registry.CallTool(ctx, step.ServerID, step.Action, params)
			if err == nil && toolResult.IsError {
				return mcperr.New(mcperr.KindInternal, "tool reported an error result")
			}
			return err
		})

		switch {
		case callErr != nil:
			graph.set(n, stepFailed)
			result.FailureCount++
			result.Steps = append(result.Steps, plan.StepResult{
				Step: step, Result: toolResult, Failure: plan.FailureError,
				Message: callErr.Error(), Success: false,
			})
			if step.Critical {
				skipped := graph.cascadeSkip(n)
				for _, sk := range skipped {
					result.SkippedCount++
					result.Steps = append(result.Steps, plan.StepResult{
						Step: byNumber[sk], Failure: plan.FailureSkippedDependency,
						Message: "skipped-due-to-dependency", Success: false,
					})
				}
				logging.Warn("orchestrator", "step %d failed critically, skipped %d dependent steps", n, len(skipped))
				remaining := remainingAfter(steps, n, graph)
				markRemainingSkipped(&result, byNumber, remaining, graph)
				return result
			}
		default:
			graph.set(n, stepSucceeded)
			subst.record(n, toolResult)
			result.SuccessCount++
			result.Steps = append(result.Steps, plan.StepResult{
				Step: step, Result: toolResult, Failure: plan.FailureNone, Success: true,
			})
		}
	}

	return result
}

// remainingAfter lists steps after a critical failure at failedAt that
// have not yet been visited or marked skipped — used to halt the chain
// entirely once a critical step fails.
func remainingAfter(steps []int, failedAt int, graph *stepGraph) []int {
	var out []int
	seenFailed := false
	for _, n := range steps {
		if n == failedAt {
			seenFailed = true
			continue
		}
		if !seenFailed {
			continue
		}
		if graph.get(n) == stepPending {
			out = append(out, n)
		}
	}
	return out
}

func markRemainingSkipped(result *plan.ChainResult, byNumber map[int]plan.Step, remaining []int, graph *stepGraph) {
	for _, n := range remaining {
		graph.set(n, stepSkipped)
		result.SkippedCount++
		result.Steps = append(result.Steps, plan.StepResult{
			Step: byNumber[n], Failure: plan.FailureSkippedDependency,
			Message: "skipped-due-to-dependency", Success: false,
		})
	}
}
