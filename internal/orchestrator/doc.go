// Package orchestrator executes a Tool Plan against the Client Registry:
// dependency-ordered scheduling, `${step_N.path}` parameter substitution
// from prior results, resilience gating per step, and criticality-based
// halt/skip semantics.
package orchestrator
