// Package config provides the configuration surface: the `mcp`
// namespace (client defaults and per-server descriptors) and the `ai`
// namespace (generative planning enablement). Loading a single
// config.yaml is not a core multiplexer responsibility — the core
// operates on already-constructed ServerDescriptor values — but every
// complete Go binary embedding this library needs a conventional way to
// get there: defaults first, then an optional yaml.v3 overlay.
package config
