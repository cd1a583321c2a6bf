package languagemodel

import (
	"context"
	"strings"
)

// PatternMatching is the deterministic fallback used whenever the remote
// model is unavailable: a case table over lowercased input producing
// canonical direct commands. DefaultServerID is a configuration value
// (never hard-coded) per the design notes' open question.
type PatternMatching struct {
	DefaultServerID string
}

// NewPatternMatching builds a fallback that substitutes defaultServerID
// into every pseudo-command it emits.
func NewPatternMatching(defaultServerID string) *PatternMatching {
	return &PatternMatching{DefaultServerID: defaultServerID}
}

type patternRule struct {
	match   func(lower string) bool
	command func(serverID string) string
}

var patternRules = []patternRule{
	{
		match: func(s string) bool { return containsAny(s, "show", "list") && strings.Contains(s, "databases") },
		command: func(id string) string { return "tool exec " + id + " listDatabases" },
	},
	{
		match: func(s string) bool { return containsAny(s, "show collections", "list collections") },
		command: func(id string) string { return "tool exec " + id + " listCollections" },
	},
	{
		match: func(s string) bool { return containsAny(s, "show tools", "list tools", "what tools") },
		command: func(string) string { return "tool all" },
	},
	{
		match: func(s string) bool { return containsAny(s, "show servers", "list servers") },
		command: func(string) string { return "server list" },
	},
	{
		match: func(s string) bool { return containsAny(s, "server health", "are servers healthy", "health check") },
		command: func(id string) string { return "server health " + id },
	},
	{
		match: func(s string) bool { return containsAny(s, "help", "what can you do") },
		command: func(string) string { return "help" },
	},
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Complete matches prompt against the case table and returns the first
// canonical command whose trigger phrase is present. If nothing matches,
// it returns a help-needed marker rather than failing, since this
// variant never itself errors.
func (p *PatternMatching) Complete(_ context.Context, prompt string) (string, error) {
	lower := strings.ToLower(prompt)
	for _, rule := range patternRules {
		if rule.match(lower) {
			return rule.command(p.DefaultServerID), nil
		}
	}
	return "HELP_NEEDED: no pattern matched the request", nil
}
