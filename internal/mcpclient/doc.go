// Package mcpclient implements the Connection and Client Registry layers
// on top of the transport package's wire carriers.
//
// A Connection wraps exactly one transport.Transport and adds request-id
// allocation, the initialize handshake, a health ping, typed tool/resource
// operations, and a multicast fan-out of the transport's notification
// stream. A Registry owns a server-id → *Connection map: it starts every
// enabled descriptor concurrently, isolating per-connection failures, and
// answers both single-server and fleet-wide aggregate queries.
package mcpclient
