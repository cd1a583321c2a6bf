// Package logging provides a structured logging system for mcpflow built on
// top of the standard library's log/slog.
//
// # Architecture
//
// All log entries include:
//   - Timestamp with millisecond precision
//   - Log level (Debug, Info, Warn, Error)
//   - Subsystem identifier for categorization
//   - Message content with optional formatting
//   - Optional error information
//
// # Usage
//
//	import "mcpflow/pkg/logging"
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//	logging.Info("Registry", "connected to %d servers", n)
//	logging.Warn("Connection", "step %s missing dependency output", stepID)
//	logging.Error("Transport", err, "failed to spawn %s", command)
//
// Subsystem names should match the component emitting the log (e.g.
// "Connection", "StdioTransport", "CircuitBreaker", "HealthMonitor") so that
// log lines can be filtered per-component without structured query tooling.
package logging
