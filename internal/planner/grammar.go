package planner

import (
	"regexp"
	"strings"
)

var controlVerbs = map[string]bool{"help": true, "clear": true, "exit": true, "quit": true}

// IsDirectCommand reports whether utterance is already a direct command:
// a bare control verb, or prefixed with "server ", "tool ", or
// "config ".
func IsDirectCommand(utterance string) bool {
	trimmed := strings.TrimSpace(utterance)
	if controlVerbs[trimmed] {
		return true
	}
	for _, prefix := range []string{"server ", "tool ", "config "} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

var (
	serverGrammar = regexp.MustCompile(`^server\s+(list|info\s+\S+|health\s+\S+)$`)
	toolGrammar   = regexp.MustCompile(`^tool\s+(all|list\s+\S+|exec\s+\S+\s+\S+(\s+.*)?)$`)
)

// ValidateGrammar reports whether command matches one of the three
// accepted shapes: server {list|info <id>|health <id>}, tool
// {all|list <id>|exec <id> <name> [args]}, or a bare control verb.
func ValidateGrammar(command string) bool {
	trimmed := strings.TrimSpace(command)
	if controlVerbs[trimmed] {
		return true
	}
	return serverGrammar.MatchString(trimmed) || toolGrammar.MatchString(trimmed)
}
