// Package transport implements the two wire-level carriers for MCP
// envelopes: a stdio transport that owns a spawned child process, and an
// HTTP transport that performs one POST per request.
//
// Both satisfy the same narrow Transport capability: send an envelope and
// get back its matching response, and observe a lazy, multi-consumer
// stream of server-initiated notifications. Higher-level concerns —
// request-id allocation, the initialize handshake, health pings, and
// typed tool/resource operations — live one layer up, in the mcpclient
// package's Connection type.
package transport
