package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"mcpflow/internal/jsonrpc"
)

// HTTPSpec describes the endpoint and per-call budget for an HTTP-carried
// MCP server.
type HTTPSpec struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
}

// closedNotifications is shared by every HTTPTransport: the HTTP carrier
// has no server-push channel, so Notifications always returns a channel
// that is already closed.
var closedNotifications = func() chan jsonrpc.Envelope {
	ch := make(chan jsonrpc.Envelope)
	close(ch)
	return ch
}()

// HTTPTransport performs one POST per request against a streamable-HTTP
// MCP endpoint. There is no persistent connection and no notification
// delivery: this transport is strictly request/response.
type HTTPTransport struct {
	spec   HTTPSpec
	client *http.Client
	closed atomic.Bool
}

// NewHTTP builds an HTTP transport for spec. No network I/O happens until
// the first Send.
func NewHTTP(spec HTTPSpec) *HTTPTransport {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTransport{
		spec:   spec,
		client: &http.Client{Timeout: timeout},
	}
}

// Send POSTs env as the request body and decodes the single JSON-RPC
// envelope in the response body. Notifications (no id) are sent
// fire-and-forget: the body is still posted, but any response is
// discarded since there is nothing to correlate it to.
func (t *HTTPTransport) Send(ctx context.Context, env jsonrpc.Envelope) (jsonrpc.Envelope, error) {
	if t.closed.Load() {
		return jsonrpc.Envelope{}, ErrClosed
	}

	body, err := jsonrpc.Encode(env)
	if err != nil {
		return jsonrpc.Envelope{}, fmt.Errorf("transport: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.spec.URL, bytes.NewReader(body))
	if err != nil {
		return jsonrpc.Envelope{}, fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range t.spec.Headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return jsonrpc.Envelope{}, fmt.Errorf("transport: post %s: %w", t.spec.URL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return jsonrpc.Envelope{}, fmt.Errorf("transport: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return jsonrpc.Envelope{}, fmt.Errorf("transport: %s returned status %d: %s", t.spec.URL, resp.StatusCode, string(data))
	}

	if env.ID == nil || !env.ID.IsSet() {
		return jsonrpc.Envelope{}, nil
	}

	if len(data) == 0 {
		return jsonrpc.Envelope{}, fmt.Errorf("transport: %s returned an empty body for a request expecting a response", t.spec.URL)
	}

	return jsonrpc.Decode(data)
}

// Notifications always returns an already-closed channel: the HTTP
// transport has no push mechanism for server-initiated messages.
func (t *HTTPTransport) Notifications() <-chan jsonrpc.Envelope {
	return closedNotifications
}

// Close marks the transport closed. There is no persistent connection or
// background goroutine to tear down.
func (t *HTTPTransport) Close() error {
	t.closed.Store(true)
	return nil
}
