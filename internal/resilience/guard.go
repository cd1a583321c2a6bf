package resilience

import "context"

// Endpoint names the two logical targets resilience gates are keyed by.
type Endpoint string

const (
	EndpointGenerative Endpoint = "generative"
	EndpointMCP        Endpoint = "mcp"
)

// Guard pairs one rate limiter and one circuit breaker for a single
// logical endpoint, composing them into the admission shape callers want:
// acquire a permit, check the breaker, run the operation, report the
// outcome back to the breaker.
type Guard struct {
	limiter *RateLimiter
	breaker *CircuitBreaker
}

// NewGuard builds a Guard from an explicit rate/circuit pair.
func NewGuard(rateCfg RateLimitConfig, circuitCfg CircuitConfig) *Guard {
	return &Guard{
		limiter: NewRateLimiter(rateCfg),
		breaker: NewCircuitBreaker(circuitCfg),
	}
}

// NewGenerativeGuard and NewMCPGuard build Guards with the fixed
// default budgets for their respective endpoints.
func NewGenerativeGuard() *Guard {
	return NewGuard(GenerativeAPIBudget, GenerativeEndpointBreaker)
}

func NewMCPGuard() *Guard {
	return NewGuard(ToolExecutionBudget, MCPEndpointBreaker)
}

// CanCall reports whether a call may proceed right now without actually
// admitting a rate-limiter permit — used by callers that want to check
// before doing expensive argument preparation.
func (g *Guard) CanCall() bool {
	return g.breaker.State() != StateOpen && g.limiter.Tokens() >= 1
}

// Call acquires a rate permit, checks the breaker, runs op, and reports
// the outcome back to the breaker. If op itself returns an error, that
// counts as a failed outcome.
func (g *Guard) Call(ctx context.Context, op func(ctx context.Context) error) error {
	if err := g.limiter.TryAcquire(ctx); err != nil {
		return err
	}
	if err := g.breaker.Admit(); err != nil {
		return err
	}

	err := op(ctx)
	g.breaker.Report(err == nil)
	return err
}

// Status is the observability snapshot exposed per guard.
type Status struct {
	Endpoint      Endpoint
	BreakerState  State
	AvailableTokens float64
}

// Status reports the guard's current state and permit count.
func (g *Guard) Status(endpoint Endpoint) Status {
	return Status{
		Endpoint:        endpoint,
		BreakerState:    g.breaker.State(),
		AvailableTokens: g.limiter.Tokens(),
	}
}
