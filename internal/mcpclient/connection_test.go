package mcpclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockServerScript answers initialize, ping, and tools/call deterministically,
// exercising a full stdio tool-call round trip without depending on a
// real MCP server being installed in the test environment.
const mockServerScript = `
while IFS= read -r line; do
  id=$(printf '%s' "$line" | sed -n 's/.*"id":\([0-9]*\).*/\1/p')
  case "$line" in
    *'"method":"initialize"'*)
      printf '{"jsonrpc":"2.0","id":%s,"result":{"name":"mock","version":"1.0"}}\n' "$id" ;;
    *'"method":"ping"'*)
      printf '{"jsonrpc":"2.0","id":%s,"result":{}}\n' "$id" ;;
    *'"method":"tools/call"'*'"name":"echo"'*)
      printf '{"jsonrpc":"2.0","id":%s,"result":{"content":[{"type":"text","text":"1"}],"isError":false}}\n' "$id" ;;
    *'"method":"tools/call"'*)
      printf '{"jsonrpc":"2.0","id":%s,"error":{"code":-32601,"message":"no such method"}}\n' "$id" ;;
    *'"method":"tools/list"'*)
      printf '{"jsonrpc":"2.0","id":%s,"result":{"tools":[{"name":"echo","description":"echoes input"}]}}\n' "$id" ;;
    *)
      printf '{"jsonrpc":"2.0","id":%s,"error":{"code":-32601,"message":"no such method"}}\n' "$id" ;;
  esac
done
`

func dialMock(t *testing.T) *Connection {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := Dial(ctx, ServerDescriptor{
		ID:      "mock",
		Type:    TransportStdio,
		Enabled: true,
		Command: "/bin/sh",
		Args:    []string{"-c", mockServerScript},
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestDial_PerformsInitializeHandshake(t *testing.T) {
	conn := dialMock(t)
	info := conn.Info()
	assert.Equal(t, "mock", info.Name)
	assert.Equal(t, "1.0", info.Version)
}

func TestConnection_Ping(t *testing.T) {
	conn := dialMock(t)
	assert.True(t, conn.Ping(context.Background()))
}

func TestConnection_CallTool_EndToEnd(t *testing.T) {
	conn := dialMock(t)

	result, err := conn.CallTool(context.Background(), "echo", map[string]any{"x": 1})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	assert.False(t, result.IsError)
	assert.Equal(t, ContentText, result.Content[0].Kind)
	assert.Equal(t, "1", result.Content[0].Text)
}

func TestConnection_ListTools(t *testing.T) {
	conn := dialMock(t)

	tools, err := conn.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "echo", tools[0].Name)
}

func TestConnection_CallTool_ServerErrorMapsToErrorResult(t *testing.T) {
	conn := dialMock(t)

	result, err := conn.CallTool(context.Background(), "missingMethodTriggersError", nil)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0].Text, "no such method")
}

func TestDial_InitializeTimeoutFailsCleanly(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := Dial(ctx, ServerDescriptor{
		ID:      "silent",
		Type:    TransportStdio,
		Enabled: true,
		Command: "/bin/sh",
		Args:    []string{"-c", "cat >/dev/null"},
		Timeout: 100 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestConnection_SubsequentRequestSucceedsAfterPriorTimeout(t *testing.T) {
	conn := dialMock(t)

	shortCtx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	_, _ = conn.ListTools(shortCtx)

	assert.True(t, conn.Ping(context.Background()))
}
