package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpflow/internal/jsonrpc"
)

// echoServerScript reads newline-delimited JSON-RPC requests and echoes
// back a response correlated to the same id; it emits no notifications.
// It stands in for a real MCP server child
// process without depending on one being installed in the test environment.
const echoServerScript = `
while IFS= read -r line; do
  id=$(echo "$line" | sed -n 's/.*"id":\([0-9]*\).*/\1/p')
  if [ -n "$id" ]; then
    printf '{"jsonrpc":"2.0","id":%s,"result":{"ok":true}}\n' "$id"
  fi
done
`

func newEchoTransport(t *testing.T) *StdioTransport {
	t.Helper()
	tr, err := NewStdio(context.Background(), StdioSpec{
		Command: "/bin/sh",
		Args:    []string{"-c", echoServerScript},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestStdioTransport_SendReceivesCorrelatedResponse(t *testing.T) {
	tr := newEchoTransport(t)

	req, err := jsonrpc.NewRequest(jsonrpc.NewIntID(1), "ping", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := tr.Send(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "1", resp.ID.String())
	assert.Nil(t, resp.Error)
}

func TestStdioTransport_SendTimesOutWithoutLeakingPendingEntry(t *testing.T) {
	tr, err := NewStdio(context.Background(), StdioSpec{
		Command: "/bin/sh",
		Args:    []string{"-c", "cat >/dev/null"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })

	req, err := jsonrpc.NewRequest(jsonrpc.NewIntID(1), "ping", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = tr.Send(ctx, req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, tr.pending.len())
}

func TestStdioTransport_CloseFailsOutstandingSends(t *testing.T) {
	tr, err := NewStdio(context.Background(), StdioSpec{
		Command: "/bin/sh",
		Args:    []string{"-c", "cat >/dev/null"},
	})
	require.NoError(t, err)

	req, err := jsonrpc.NewRequest(jsonrpc.NewIntID(1), "ping", nil)
	require.NoError(t, err)

	resultCh := make(chan error, 1)
	go func() {
		_, sendErr := tr.Send(context.Background(), req)
		resultCh <- sendErr
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, tr.Close())

	select {
	case err := <-resultCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Send did not unblock after Close")
	}
}

func TestStdioTransport_NotificationsFanOutToMultipleSubscribers(t *testing.T) {
	tr, err := NewStdio(context.Background(), StdioSpec{
		Command: "/bin/sh",
		Args:    []string{"-c", `printf '{"jsonrpc":"2.0","method":"notifications/progress","params":{}}\n'; sleep 1`},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })

	subA := tr.Notifications()
	subB := tr.Notifications()

	for _, sub := range []<-chan jsonrpc.Envelope{subA, subB} {
		select {
		case env := <-sub:
			assert.Equal(t, "notifications/progress", env.Method)
			assert.True(t, env.IsNotification())
		case <-time.After(2 * time.Second):
			t.Fatal("did not receive notification on subscriber")
		}
	}
}

func TestStdioTransport_SendAfterCloseIsRejected(t *testing.T) {
	tr := newEchoTransport(t)
	require.NoError(t, tr.Close())

	req, err := jsonrpc.NewRequest(jsonrpc.NewIntID(1), "ping", nil)
	require.NoError(t, err)

	_, err = tr.Send(context.Background(), req)
	assert.ErrorIs(t, err, ErrClosed)
}
