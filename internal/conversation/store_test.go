package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateRejectsInvalidContextID(t *testing.T) {
	s := New()
	_, err := s.Create("has a space")
	require.Error(t, err)
}

func TestStore_GetCreatesThenReturnsSameContext(t *testing.T) {
	s := New()
	a := s.Get("ctx-1")
	b := s.Get("ctx-1")
	assert.Same(t, a, b)
}

func TestStore_AppendBoundsHistory(t *testing.T) {
	s := New()
	for i := 0; i < MaxHistory+10; i++ {
		s.Append("ctx-1", RoleUser, "turn")
	}
	ctx := s.Get("ctx-1")
	assert.Len(t, ctx.History, MaxHistory)
}

func TestStore_SweepEvictsOnlyIdleContexts(t *testing.T) {
	s := New()
	s.Append("fresh", RoleUser, "hi")
	s.Append("stale", RoleUser, "hi")

	stale := s.Get("stale")
	stale.LastUsedAt = time.Now().Add(-2 * IdleTTL)

	evicted := s.sweep(time.Now())

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, s.Len())
	_, ok := func() (*Context, bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		c, ok := s.contexts["fresh"]
		return c, ok
	}()
	assert.True(t, ok)
}

func TestStore_StartAndStopSweeperDoesNotHang(t *testing.T) {
	s := New()
	s.StartSweeper()
	s.Stop()
}
