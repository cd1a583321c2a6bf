package mcpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"mcpflow/internal/jsonrpc"
	"mcpflow/internal/mcperr"
	"mcpflow/internal/transport"
	"mcpflow/pkg/logging"
)

// ProtocolVersion is the MCP protocol tag sent in every initialize request.
const ProtocolVersion = "2024-11-05"

// ClientName and ClientVersion identify this library to servers during
// the initialize handshake.
const (
	ClientName    = "mcpflow"
	ClientVersion = "1.0.0"
)

const pingDeadline = 5 * time.Second

// Connection wraps one transport and owns request-id allocation, the
// initialize handshake, and the typed tool/resource operations. Its
// transport owns the pending-request table and the reader task; the
// Connection never touches them directly.
type Connection struct {
	id         string
	descriptor ServerDescriptor
	transport  transport.Transport

	nextID int64
	info   atomic.Pointer[ServerInfo]
}

// Dial constructs the appropriate transport for descriptor (the one
// place that branches on TransportKind) and performs the initialize
// handshake. On handshake failure the transport is closed and the
// Connection is not returned.
func Dial(ctx context.Context, descriptor ServerDescriptor) (*Connection, error) {
	var carrier transport.Transport
	switch descriptor.Type {
	case TransportStdio:
		st, err := transport.NewStdio(ctx, transport.StdioSpec{
			Command: descriptor.Command,
			Args:    descriptor.Args,
			Env:     descriptor.Env,
		})
		if err != nil {
			return nil, mcperr.Wrap(mcperr.KindTransport, "spawn "+descriptor.ID, err)
		}
		carrier = st
	case TransportHTTP:
		carrier = transport.NewHTTP(transport.HTTPSpec{
			URL:     descriptor.URL,
			Headers: descriptor.Headers,
			Timeout: descriptor.Timeout,
		})
	default:
		return nil, mcperr.New(mcperr.KindInvalidParams, fmt.Sprintf("unknown transport kind %q for server %s", descriptor.Type, descriptor.ID))
	}

	conn := &Connection{id: descriptor.ID, descriptor: descriptor, transport: carrier}

	info, err := conn.initialize(ctx)
	if err != nil {
		_ = carrier.Close()
		return nil, mcperr.Wrap(mcperr.KindInternal, "initialize "+descriptor.ID, err)
	}
	conn.info.Store(info)
	return conn, nil
}

// ID is the server identifier this Connection was dialed for.
func (c *Connection) ID() string { return c.id }

// Info returns the Server Info captured at initialize time.
func (c *Connection) Info() ServerInfo {
	if p := c.info.Load(); p != nil {
		return *p
	}
	return ServerInfo{}
}

func (c *Connection) allocID() jsonrpc.ID {
	n := atomic.AddInt64(&c.nextID, 1)
	return jsonrpc.NewIntID(n)
}

func (c *Connection) requestTimeout() time.Duration {
	if c.descriptor.Timeout > 0 {
		return c.descriptor.Timeout
	}
	return 30 * time.Second
}

func (c *Connection) call(ctx context.Context, method string, params, result interface{}) error {
	req, err := jsonrpc.NewRequest(c.allocID(), method, params)
	if err != nil {
		return mcperr.Wrap(mcperr.KindInvalidParams, "build "+method+" request", err)
	}

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return classifySendError(err)
	}

	if resp.Error != nil {
		return mcperr.New(mcperr.KindInternal, fmt.Sprintf("%s: %s", method, resp.Error.Message))
	}
	if result == nil || resp.Result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return mcperr.Wrap(mcperr.KindInternal, "decode "+method+" result", err)
	}
	return nil
}

func classifySendError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return mcperr.Wrap(mcperr.KindTimeout, "request timed out", err)
	case errors.Is(err, transport.ErrClosed):
		return mcperr.Wrap(mcperr.KindConnectionClosed, "connection closed", err)
	default:
		return mcperr.Wrap(mcperr.KindTransport, "transport error", err)
	}
}

type initializeParams struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ClientInfo      clientInfo `json:"clientInfo"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (c *Connection) initialize(ctx context.Context) (*ServerInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout())
	defer cancel()

	var raw struct {
		Name        string         `json:"name"`
		Version     string         `json:"version"`
		Description string         `json:"description"`
		Capability  map[string]any `json:"capabilities"`
		Vendor      string         `json:"vendor"`
	}
	params := initializeParams{
		ProtocolVersion: ProtocolVersion,
		ClientInfo:      clientInfo{Name: ClientName, Version: ClientVersion},
	}
	if err := c.call(ctx, "initialize", params, &raw); err != nil {
		return nil, err
	}

	return &ServerInfo{
		Name:        raw.Name,
		Version:     raw.Version,
		Description: raw.Description,
		Capability:  raw.Capability,
		Vendor:      raw.Vendor,
	}, nil
}

// Ping reports whether the server answers within the fixed health-probe
// deadline.
func (c *Connection) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingDeadline)
	defer cancel()
	err := c.call(ctx, "ping", nil, nil)
	if err != nil {
		logging.Debug("mcpclient.connection", "ping %s failed: %v", c.id, err)
	}
	return err == nil
}

// ListTools returns the server's advertised tools.
func (c *Connection) ListTools(ctx context.Context) ([]Tool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout())
	defer cancel()

	var result struct {
		Tools []Tool `json:"tools"`
	}
	if err := c.call(ctx, "tools/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// CallTool invokes a tool by name. Server-side failures are mapped into
// a ToolResult with IsError set rather than propagated as errors, so
// plan execution stays uniform — except for failures that never reached
// the server (timeout, transport, connection-closed), which the caller
// must still see as errors so resilience and orchestration can classify
// them.
func (c *Connection) CallTool(ctx context.Context, name string, arguments map[string]any) (ToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout())
	defer cancel()

	var result ToolResult
	err := c.call(ctx, "tools/call", toolCallParams{Name: name, Arguments: arguments}, &result)
	if err != nil {
		if kind, ok := mcperr.KindOf(err); ok && (kind == mcperr.KindInternal) {
			return ToolResult{IsError: true, Content: []ContentItem{{Kind: ContentText, Text: err.Error()}}}, nil
		}
		return ToolResult{}, err
	}
	return result, nil
}

// ListResources returns the server's advertised resources.
func (c *Connection) ListResources(ctx context.Context) ([]Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout())
	defer cancel()

	var result struct {
		Resources []Resource `json:"resources"`
	}
	if err := c.call(ctx, "resources/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

// ReadResource reads the content at uri.
func (c *Connection) ReadResource(ctx context.Context, uri string) (ResourceContent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout())
	defer cancel()

	var result ResourceContent
	if err := c.call(ctx, "resources/read", map[string]string{"uri": uri}, &result); err != nil {
		return ResourceContent{}, err
	}
	return result, nil
}

// Notifications exposes the underlying transport's multicast notification
// stream directly: the transport already guarantees every subscriber
// sees every notification from the point it subscribes with no replay.
func (c *Connection) Notifications() <-chan jsonrpc.Envelope {
	return c.transport.Notifications()
}

// Close tears down the transport, which in turn fails every pending
// request with connection-closed and completes the notification stream.
func (c *Connection) Close() error {
	return c.transport.Close()
}
