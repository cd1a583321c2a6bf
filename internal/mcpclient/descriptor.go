package mcpclient

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// TransportKind tags which carrier a Server Descriptor requires. The
// Registry dispatches on this exactly once, at connection construction;
// nothing downstream branches on it again.
type TransportKind string

const (
	TransportStdio TransportKind = "stdio"
	TransportHTTP  TransportKind = "http"
)

// ServerDescriptor is the static configuration for one MCP server,
// corresponding to a `servers.<id>` entry in the `mcp` configuration
// namespace.
type ServerDescriptor struct {
	ID      string
	Type    TransportKind
	Enabled bool

	// Stdio fields.
	Command string
	Args    []string
	Env     []string

	// HTTP fields.
	URL     string
	Headers map[string]string

	Timeout time.Duration
}

// ServerInfo is the result of the initialize handshake, as reported by
// the server itself.
type ServerInfo struct {
	Name        string
	Version     string
	Description string
	Capability  map[string]any
	Vendor      string
	Extra       map[string]any
}

// Tool is a server-advertised callable.
type Tool struct {
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	InputSchema  map[string]any `json:"inputSchema,omitempty"`
	OutputSchema map[string]any `json:"outputSchema,omitempty"`
}

// ContentKind tags the shape carried by a ContentItem.
type ContentKind string

const (
	ContentText   ContentKind = "text"
	ContentData   ContentKind = "data"
	ContentBinary ContentKind = "binary"
)

// ContentItem is one element of a tool or resource result. Exactly one
// of Text, Data, Blob is meaningful, selected by Kind. The wire shape
// uses a "type" discriminator ("text"|"data"|"binary") rather than the
// Go field name Kind, so this type carries its own (Un)MarshalJSON.
type ContentItem struct {
	Kind     ContentKind
	Text     string
	Data     map[string]any
	Blob     []byte
	MIMEType string
}

type contentItemWire struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Blob     string         `json:"blob,omitempty"`
	MIMEType string         `json:"mimeType,omitempty"`
}

func (c ContentItem) MarshalJSON() ([]byte, error) {
	wire := contentItemWire{Type: string(c.Kind), MIMEType: c.MIMEType}
	switch c.Kind {
	case ContentText:
		wire.Text = c.Text
	case ContentData:
		wire.Data = c.Data
	case ContentBinary:
		wire.Blob = base64.StdEncoding.EncodeToString(c.Blob)
	}
	return json.Marshal(wire)
}

func (c *ContentItem) UnmarshalJSON(data []byte) error {
	var wire contentItemWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*c = ContentItem{Kind: ContentKind(wire.Type), MIMEType: wire.MIMEType}
	switch c.Kind {
	case ContentText:
		c.Text = wire.Text
	case ContentData:
		c.Data = wire.Data
	case ContentBinary:
		blob, err := base64.StdEncoding.DecodeString(wire.Blob)
		if err != nil {
			return fmt.Errorf("mcpclient: decode binary content: %w", err)
		}
		c.Blob = blob
	default:
		// Servers that omit the type discriminator are treated as text,
		// the common case for minimal tool implementations.
		c.Kind = ContentText
		c.Text = wire.Text
	}
	return nil
}

// ToolResult is the outcome of a tools/call invocation.
type ToolResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError"`
}

// Resource is a server-advertised readable URI.
type Resource struct {
	URI         string         `json:"uri"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	MIMEType    string         `json:"mimeType,omitempty"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

// ResourceContent is the payload returned by resources/read.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     []byte `json:"blob,omitempty"`
}
