// Package resilience provides the two admission-control primitives every
// outbound call (generative LLM request, MCP tool call) is gated by: a
// token-bucket rate limiter built on golang.org/x/time/rate, and a
// hand-rolled sliding-window circuit breaker implementing CLOSED/OPEN/
// HALF_OPEN transitions directly (see DESIGN.md for why this one primitive
// isn't sourced from a library).
//
// Guard composes both into the shape callers actually want: acquire a
// rate permit, check the breaker, run the operation, report the outcome.
package resilience
