package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_CallReportsFailureToBreaker(t *testing.T) {
	g := NewGuard(
		RateLimitConfig{Capacity: 10, RefreshPeriod: time.Minute, MaxWait: time.Second},
		CircuitConfig{FailureRateThreshold: 0.5, WindowSize: 4, MinimumCalls: 2, OpenWait: time.Second, HalfOpenProbes: 1},
	)

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		err := g.Call(context.Background(), func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
	}

	assert.False(t, g.CanCall())
}

func TestGuard_CallSucceedsKeepsBreakerClosed(t *testing.T) {
	g := NewGuard(
		RateLimitConfig{Capacity: 10, RefreshPeriod: time.Minute, MaxWait: time.Second},
		CircuitConfig{FailureRateThreshold: 0.5, WindowSize: 4, MinimumCalls: 2, OpenWait: time.Second, HalfOpenProbes: 1},
	)

	err := g.Call(context.Background(), func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.True(t, g.CanCall())
}

func TestGuard_StatusReportsEndpointAndState(t *testing.T) {
	g := NewGenerativeGuard()
	status := g.Status(EndpointGenerative)
	assert.Equal(t, EndpointGenerative, status.Endpoint)
	assert.Equal(t, StateClosed, status.BreakerState)
}
