package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mcpflow/internal/languagemodel"
	"mcpflow/internal/mcpclient"
	"mcpflow/internal/mcperr"
	"mcpflow/internal/plan"
	"mcpflow/pkg/logging"
	pkgstrings "mcpflow/pkg/strings"
)

const helpNeededMarker = "HELP_NEEDED:"

// Planner turns utterances into Intents and, for multi-step requests,
// Tool Plans. Model is the primary LLM path, used whenever Models has no
// entry for the size Plan selects; Fallback is retried when the LLM's
// output fails grammar validation (a semantic failure, not a call
// failure — languagemodel.WithFallback already handles the latter one
// layer down).
type Planner struct {
	Model    languagemodel.LanguageModel
	Fallback languagemodel.LanguageModel
	Models   map[languagemodel.Size]languagemodel.LanguageModel
}

// New builds a Planner backed by a single model, with no size tiering.
func New(model, fallback languagemodel.LanguageModel) *Planner {
	return &Planner{Model: model, Fallback: fallback}
}

// NewSized builds a Planner that picks among fast/default/reasoning model
// variants per request via languagemodel.SelectSize. A size missing from
// models falls back to models[languagemodel.SizeDefault].
func NewSized(models map[languagemodel.Size]languagemodel.LanguageModel, fallback languagemodel.LanguageModel) *Planner {
	return &Planner{Model: models[languagemodel.SizeDefault], Fallback: fallback, Models: models}
}

func (p *Planner) modelForSize(size languagemodel.Size) languagemodel.LanguageModel {
	if m, ok := p.Models[size]; ok && m != nil {
		return m
	}
	return p.Model
}

// Plan runs the fast-path/LLM-path algorithm against utterance, which
// must already have passed the Input Validator. fastRequested is passed
// through to languagemodel.SelectSize to choose which model tier serves
// the LLM path.
func (p *Planner) Plan(ctx context.Context, utterance string, catalog mcpclient.ToolCatalog, fastRequested bool) (plan.Intent, *plan.Plan, error) {
	trimmed := strings.TrimSpace(utterance)

	if IsDirectCommand(trimmed) {
		return plan.Intent{
			Kind:       classifyCommand(trimmed),
			Parameters: map[string]any{"command": trimmed},
			Reasoning:  "direct command",
			Confidence: 1.0,
		}, nil, nil
	}

	size := languagemodel.SelectSize(trimmed, fastRequested)
	model := p.modelForSize(size)

	systemPrompt := buildSystemPrompt(catalog, IsMultiStep(trimmed))
	response, err := model.Complete(ctx, systemPrompt+"\n\nUser request: "+trimmed)
	if err != nil {
		response, err = p.Fallback.Complete(ctx, trimmed)
		if err != nil {
			return plan.Intent{}, nil, mcperr.Wrap(mcperr.KindPlanning, "both primary and fallback models failed", err)
		}
	}

	return p.interpret(ctx, trimmed, response)
}

func (p *Planner) interpret(ctx context.Context, utterance, response string) (plan.Intent, *plan.Plan, error) {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, helpNeededMarker) {
		reason := strings.TrimSpace(strings.TrimPrefix(response, helpNeededMarker))
		return plan.Intent{Kind: plan.IntentConversational, Reasoning: reason, Confidence: 0}, nil, nil
	}

	if strings.HasPrefix(response, "{") {
		if steps, built, err := parseJSONPlan(response); err == nil {
			return plan.Intent{
				Kind:           classifyCommand(built.Analysis),
				Reasoning:      built.Analysis,
				Confidence:     0.8,
				SuggestedSteps: steps,
			}, built, nil
		}
		logging.Warn("planner", "LLM returned malformed plan JSON, falling back to pattern matching")
		return p.retryWithFallback(ctx, utterance)
	}

	if ValidateGrammar(response) {
		return plan.Intent{
			Kind:       classifyCommand(response),
			Parameters: map[string]any{"command": response},
			Reasoning:  "llm-produced direct command",
			Confidence: 0.7,
		}, nil, nil
	}

	logging.Warn("planner", "LLM output %q failed grammar validation, falling back to pattern matching", response)
	return p.retryWithFallback(ctx, utterance)
}

func (p *Planner) retryWithFallback(ctx context.Context, utterance string) (plan.Intent, *plan.Plan, error) {
	response, err := p.Fallback.Complete(ctx, utterance)
	if err != nil {
		return plan.Intent{}, nil, mcperr.Wrap(mcperr.KindPlanning, "fallback model failed", err)
	}
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, helpNeededMarker) {
		reason := strings.TrimSpace(strings.TrimPrefix(response, helpNeededMarker))
		return plan.Intent{Kind: plan.IntentConversational, Reasoning: reason, Confidence: 0}, nil, nil
	}
	if !ValidateGrammar(response) {
		return plan.Intent{}, nil, mcperr.New(mcperr.KindPlanning, "planner produced no valid action")
	}
	return plan.Intent{
		Kind:       classifyCommand(response),
		Parameters: map[string]any{"command": response},
		Reasoning:  "pattern-matching fallback",
		Confidence: 0.5,
	}, nil, nil
}

type wireStep struct {
	Step       int            `json:"step"`
	Action     string         `json:"action"`
	Server     string         `json:"server"`
	Parameters map[string]any `json:"parameters"`
	Reasoning  string         `json:"reasoning"`
}

type wirePlan struct {
	Analysis        string     `json:"analysis"`
	ExpectedOutcome string     `json:"expected_outcome"`
	Steps           []wireStep `json:"steps"`
}

func parseJSONPlan(response string) ([]plan.Step, *plan.Plan, error) {
	var wp wirePlan
	if err := json.Unmarshal([]byte(response), &wp); err != nil {
		return nil, nil, err
	}
	if len(wp.Steps) == 0 {
		return nil, nil, fmt.Errorf("planner: plan has no steps")
	}

	steps := make([]plan.Step, 0, len(wp.Steps))
	for i, ws := range wp.Steps {
		if ws.Step != i+1 {
			return nil, nil, fmt.Errorf("planner: step numbers must be strictly increasing from 1, got %d at position %d", ws.Step, i)
		}
		deps := InferredDependencies(ws.Parameters)
		for _, dep := range deps {
			if dep >= ws.Step {
				return nil, nil, fmt.Errorf("planner: step %d references non-earlier step %d", ws.Step, dep)
			}
		}
		steps = append(steps, plan.Step{
			Number:       ws.Step,
			Action:       ws.Action,
			ServerID:     ws.Server,
			Parameters:   ws.Parameters,
			Reasoning:    ws.Reasoning,
			Critical:     true,
			Dependencies: deps,
		})
	}

	return steps, &plan.Plan{Analysis: wp.Analysis, ExpectedOutcome: wp.ExpectedOutcome, Steps: steps}, nil
}

func classifyCommand(s string) plan.IntentKind {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "database") || strings.Contains(lower, "collection") || strings.Contains(lower, "mongo"):
		return plan.IntentDatabaseOperation
	case strings.Contains(lower, "file") || strings.Contains(lower, "read") || strings.Contains(lower, "write"):
		return plan.IntentFileOperation
	case strings.HasPrefix(lower, "server") || strings.Contains(lower, "server"):
		return plan.IntentServerOperation
	case strings.Contains(lower, "analyze") || strings.Contains(lower, "compare") || strings.Contains(lower, "explain"):
		return plan.IntentAnalysis
	case lower == "help" || lower == "clear" || lower == "exit" || lower == "quit" || lower == "":
		return plan.IntentConversational
	default:
		return plan.IntentUnknown
	}
}

func buildSystemPrompt(catalog mcpclient.ToolCatalog, multiStep bool) string {
	var b strings.Builder
	b.WriteString("You are the planning layer for an MCP multiplexer client.\n")
	b.WriteString("Allowed direct commands: server {list|info <id>|health <id>}, tool {all|list <id>|exec <id> <name> [args]}, help, clear, exit, quit.\n")
	b.WriteString("If the request cannot be satisfied, reply with exactly: " + helpNeededMarker + " <reason>.\n")
	b.WriteString("Available tools by server:\n")
	for serverID, tools := range catalog {
		b.WriteString("- " + serverID + ": ")
		entries := make([]string, 0, len(tools))
		for _, t := range tools {
			entry := t.Name
			if t.Description != "" {
				entry += " (" + pkgstrings.TruncateDescription(t.Description, pkgstrings.DefaultDescriptionMaxLen) + ")"
			}
			entries = append(entries, entry)
		}
		b.WriteString(strings.Join(entries, ", "))
		b.WriteString("\n")
	}
	if multiStep {
		b.WriteString("This request looks like multiple steps. Reply with a JSON plan: ")
		b.WriteString(`{"analysis":"...","expected_outcome":"...","steps":[{"step":1,"action":"...","server":"...","parameters":{},"reasoning":"..."}]}`)
		b.WriteString(". Later steps may reference earlier results with ${step_N.path} tokens.\n")
	}
	return b.String()
}
