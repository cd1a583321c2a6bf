package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"mcpflow/internal/mcperr"
)

const (
	// MaxInputLength is the DoS guard: anything longer is rejected outright.
	MaxInputLength = 10000

	// LongWhitespaceRunLength is the minimum run of whitespace characters
	// that is itself treated as an injection attempt (padding used to push
	// real content past a naive truncation).
	LongWhitespaceRunLength = 50
)

// ContextIDPattern is the grammar for conversation context identifiers.
var ContextIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// injectionPatterns target role impersonation, instruction override,
// system-prompt injection, and script/markdown code-fence smuggling.
// All are matched case-insensitively.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+instructions`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an)\s+\w+`),
	regexp.MustCompile(`(?i)act\s+as\s+(if\s+you\s+are\s+)?(a|an)\s+\w+`),
	regexp.MustCompile(`(?i)system\s*prompt`),
	regexp.MustCompile(`(?i)\[\s*system\s*\]`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(your\s+)?(rules|instructions|guidelines)`),
	regexp.MustCompile(`(?i)<\s*script[\s>]`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile("(?i)```\\s*system"),
	regexp.MustCompile(`(?i)new\s+instructions\s*:`),
}

// isSuspectRune reports whether r is a bidirectional override or
// zero-width control character commonly used to hide injected text.
func isSuspectRune(r rune) bool {
	switch r {
	case '​', '‌', '‍', '⁠', '﻿', // zero-width
		'‪', '‫', '‬', '‭', '‮', // bidi embedding/override
		'⁦', '⁧', '⁨', '⁩': // bidi isolates
		return true
	}
	return unicode.Is(unicode.Cf, r) && r != '\t'
}

var whitespaceRun = regexp.MustCompile(fmt.Sprintf(`\s{%d,}`, LongWhitespaceRunLength))

// Validate rejects disallowed input and returns the normalized string on
// acceptance.
func Validate(input string) (string, error) {
	if len(input) > MaxInputLength {
		return "", mcperr.New(mcperr.KindValidation, "input exceeds maximum length")
	}
	if strings.TrimSpace(input) == "" {
		return "", mcperr.New(mcperr.KindValidation, "input is empty or whitespace-only")
	}
	if whitespaceRun.MatchString(input) {
		return "", mcperr.New(mcperr.KindValidation, "input contains an excessive run of whitespace")
	}
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(input) {
			return "", mcperr.New(mcperr.KindValidation, "input matches a disallowed pattern")
		}
	}
	return normalize(input), nil
}

// normalize collapses whitespace, strips suspect Unicode, normalizes line
// endings, and collapses long runs of blank lines. Applying it twice is
// idempotent: every transformation here is already a fixed point of
// itself.
func normalize(input string) string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if isSuspectRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	stripped := b.String()

	stripped = collapseSpaces(stripped)
	stripped = collapseNewlines(stripped)
	return stripped
}

func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}

var excessNewlines = regexp.MustCompile(`\n{4,}`)

func collapseNewlines(s string) string {
	return excessNewlines.ReplaceAllString(s, "\n\n\n")
}

// IsHighRisk reports true when two or more injection patterns match,
// distinguishing incidental phrasing from a deliberate jailbreak attempt.
func IsHighRisk(input string) bool {
	matches := 0
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(input) {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}
	return false
}

// ValidateContextID checks a conversation context identifier against its
// grammar: length at most 100, characters confined to [A-Za-z0-9_-].
func ValidateContextID(id string) error {
	if !ContextIDPattern.MatchString(id) {
		return mcperr.New(mcperr.KindValidation, "invalid context id")
	}
	return nil
}
