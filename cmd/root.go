// Package cmd wires the multiplexer's components into a runnable
// process: config loading, Registry startup, the resilience-gated
// Orchestrator, the Health Monitor, and the Conversation Store, each
// constructed once at bootstrap and composed via constructor
// parameters — nothing here is
// discovered at runtime.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"mcpflow/internal/mcperr"
)

// Exit codes. Not normatively defined by the core library; this CLI
// wrapper maps a handful of typed failure kinds to distinct codes so
// scripts can branch on them.
const (
	ExitCodeSuccess      = 0
	ExitCodeError        = 1
	ExitCodeConfigError  = 2
	ExitCodeConnectError = 3
)

var rootCmd = &cobra.Command{
	Use:   "mcpflow",
	Short: "MCP connection multiplexer and tool-chain orchestrator",
	Long: `mcpflow multiplexes connections to one or more MCP servers, turns
natural-language requests into tool-call plans, and executes those plans
with per-step resilience gating and dependency-aware scheduling.`,
	SilenceUsage: true,
}

var version = "dev"

// SetVersion injects the build-time version, called from main().
func SetVersion(v string) { rootCmd.Version = v; version = v }

// Execute runs the CLI, mapping returned errors to exit codes.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcpflow version %s\n" .Version}}`)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	kind, ok := mcperr.KindOf(err)
	if !ok {
		return ExitCodeError
	}
	switch kind {
	case mcperr.KindValidation, mcperr.KindInvalidParams:
		return ExitCodeConfigError
	case mcperr.KindTransport, mcperr.KindConnectionClosed, mcperr.KindTimeout:
		return ExitCodeConnectError
	default:
		return ExitCodeError
	}
}
