package mcpclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockDescriptor(id string) ServerDescriptor {
	return ServerDescriptor{
		ID:      id,
		Type:    TransportStdio,
		Enabled: true,
		Command: "/bin/sh",
		Args:    []string{"-c", mockServerScript},
		Timeout: 2 * time.Second,
	}
}

func brokenDescriptor(id string) ServerDescriptor {
	return ServerDescriptor{
		ID:      id,
		Type:    TransportStdio,
		Enabled: true,
		Command: "/bin/sh",
		Args:    []string{"-c", "exit 1"},
		Timeout: 200 * time.Millisecond,
	}
}

func TestRegistry_StartIsolatesPerConnectionFailure(t *testing.T) {
	r := NewRegistry()
	r.Start(context.Background(), []ServerDescriptor{
		mockDescriptor("good"),
		brokenDescriptor("bad"),
	})
	t.Cleanup(r.Shutdown)

	_, ok := r.Get("good")
	assert.True(t, ok)
	_, ok = r.Get("bad")
	assert.False(t, ok)
}

func TestRegistry_StartSkipsDisabledDescriptors(t *testing.T) {
	r := NewRegistry()
	disabled := mockDescriptor("disabled")
	disabled.Enabled = false
	r.Start(context.Background(), []ServerDescriptor{disabled})
	t.Cleanup(r.Shutdown)

	assert.Empty(t, r.IDs())
}

func TestRegistry_AddRejectsDuplicateID(t *testing.T) {
	r := NewRegistry()
	r.Start(context.Background(), []ServerDescriptor{mockDescriptor("srv")})
	t.Cleanup(r.Shutdown)

	err := r.Add(context.Background(), mockDescriptor("srv"))
	assert.Error(t, err)
}

func TestRegistry_RemoveClosesAndForgets(t *testing.T) {
	r := NewRegistry()
	r.Start(context.Background(), []ServerDescriptor{mockDescriptor("srv")})
	t.Cleanup(r.Shutdown)

	require.NoError(t, r.Remove("srv"))
	_, ok := r.Get("srv")
	assert.False(t, ok)
}

func TestRegistry_AllToolsAggregatesAcrossConnections(t *testing.T) {
	r := NewRegistry()
	r.Start(context.Background(), []ServerDescriptor{mockDescriptor("a"), mockDescriptor("b")})
	t.Cleanup(r.Shutdown)

	catalog := r.AllTools(context.Background())
	require.Contains(t, catalog, "a")
	require.Contains(t, catalog, "b")
	assert.Len(t, catalog["a"], 1)
}

func TestRegistry_OverallHealthReportsHealthyServer(t *testing.T) {
	r := NewRegistry()
	r.Start(context.Background(), []ServerDescriptor{mockDescriptor("up")})
	t.Cleanup(r.Shutdown)

	statuses := r.OverallHealth(context.Background())
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Healthy)
}

func TestRegistry_CallToolDelegatesToNamedServer(t *testing.T) {
	r := NewRegistry()
	r.Start(context.Background(), []ServerDescriptor{mockDescriptor("srv")})
	t.Cleanup(r.Shutdown)

	result, err := r.CallTool(context.Background(), "srv", "echo", nil)
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestRegistry_ShutdownClearsMap(t *testing.T) {
	r := NewRegistry()
	r.Start(context.Background(), []ServerDescriptor{mockDescriptor("srv")})

	r.Shutdown()
	assert.Empty(t, r.IDs())
}
