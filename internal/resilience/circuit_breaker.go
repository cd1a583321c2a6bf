package resilience

import (
	"sync"
	"time"

	"mcpflow/internal/mcperr"
)

// State is one of the breaker's three admission states.
type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
)

// CircuitConfig parameterizes one breaker instance.
type CircuitConfig struct {
	FailureRateThreshold float64 // e.g. 0.5 for 50%
	WindowSize           int     // count of recent calls retained
	MinimumCalls         int     // floor before the rate is evaluated at all
	OpenWait             time.Duration
	HalfOpenProbes       int
}

// Defaults for the two named endpoints.
var (
	GenerativeEndpointBreaker = CircuitConfig{FailureRateThreshold: 0.5, WindowSize: 10, MinimumCalls: 5, OpenWait: 30 * time.Second, HalfOpenProbes: 3}
	MCPEndpointBreaker        = CircuitConfig{FailureRateThreshold: 0.6, WindowSize: 8, MinimumCalls: 3, OpenWait: 15 * time.Second, HalfOpenProbes: 2}
)

// CircuitBreaker is a sliding-window failure-rate gate. The window is a
// fixed-size ring buffer of recent outcomes; CLOSED->OPEN is evaluated
// after every reported outcome once at least MinimumCalls are present.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitConfig

	state    State
	window   []bool
	head     int
	filled   int
	openedAt time.Time

	halfOpenRemaining int
	halfOpenFailed    bool
}

// NewCircuitBreaker builds a breaker starting CLOSED.
func NewCircuitBreaker(cfg CircuitConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:    cfg,
		state:  StateClosed,
		window: make([]bool, cfg.WindowSize),
	}
}

// Admit reports whether a call may proceed right now, transitioning
// OPEN->HALF_OPEN if the open-wait has elapsed.
func (b *CircuitBreaker) Admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(b.openedAt) < b.cfg.OpenWait {
			return mcperr.New(mcperr.KindCircuitOpen, "circuit open")
		}
		b.state = StateHalfOpen
		b.halfOpenRemaining = b.cfg.HalfOpenProbes
		b.halfOpenFailed = false
		fallthrough
	case StateHalfOpen:
		if b.halfOpenRemaining <= 0 {
			return mcperr.New(mcperr.KindCircuitOpen, "circuit open (half-open probes exhausted)")
		}
		b.halfOpenRemaining--
		return nil
	default:
		return nil
	}
}

// Report records a call outcome and updates the breaker's state.
func (b *CircuitBreaker) Report(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		if success {
			if b.halfOpenRemaining <= 0 && !b.halfOpenFailed {
				b.toClosed()
			}
		} else {
			b.halfOpenFailed = true
			b.toOpen()
		}
		return
	case StateOpen:
		// A stray report after the window already reopened; ignore.
		return
	}

	b.record(success)
	if b.filled >= b.cfg.MinimumCalls && b.failureRate() >= b.cfg.FailureRateThreshold {
		b.toOpen()
	}
}

func (b *CircuitBreaker) record(success bool) {
	b.window[b.head] = !success
	b.head = (b.head + 1) % len(b.window)
	if b.filled < len(b.window) {
		b.filled++
	}
}

func (b *CircuitBreaker) failureRate() float64 {
	if b.filled == 0 {
		return 0
	}
	failures := 0
	for i := 0; i < b.filled; i++ {
		if b.window[i] {
			failures++
		}
	}
	return float64(failures) / float64(b.filled)
}

func (b *CircuitBreaker) toOpen() {
	b.state = StateOpen
	b.openedAt = time.Now()
}

func (b *CircuitBreaker) toClosed() {
	b.state = StateClosed
	b.head = 0
	b.filled = 0
	for i := range b.window {
		b.window[i] = false
	}
}

// State reports the breaker's current state, for observability.
func (b *CircuitBreaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
