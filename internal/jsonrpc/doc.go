// Package jsonrpc implements the wire-level JSON-RPC 2.0 envelope used by
// every MCP transport (stdio and HTTP alike).
//
// An Envelope is the single message shape exchanged with a server: a
// request or notification carries Method/Params, a response carries
// Result or Error, and exactly one of those pairs is populated at a time.
// The New* helpers always set the protocol tag and never populate both
// Result and Error. Envelope's fields are exported, so a struct literal
// can still describe a malformed envelope; Encode and Decode reject one
// that lacks the protocol tag or carries both Result and Error.
package jsonrpc
