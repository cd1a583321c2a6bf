package languagemodel

import (
	"context"
	"strings"
)

// LanguageModel is the single capability every variant satisfies: turn a
// prompt into assistant text, or fail with a typed mcperr.Failure.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Size selects which model tier a request should use.
type Size string

const (
	SizeFast      Size = "fast"
	SizeReasoning Size = "reasoning"
	SizeDefault   Size = "default"
)

const (
	reasoningCharThreshold = 500
	reasoningWordThreshold = 100
)

var reasoningTriggerWords = []string{"analyze", "compare", "explain why", "reasoning", "complex"}

// SelectSize chooses a model tier for prompt. fastRequested short-circuits
// to SizeFast regardless of prompt shape; otherwise a long or
// reasoning-flavored prompt selects SizeReasoning, and everything else
// gets SizeDefault.
func SelectSize(prompt string, fastRequested bool) Size {
	if fastRequested {
		return SizeFast
	}
	if len(prompt) > reasoningCharThreshold || wordCount(prompt) > reasoningWordThreshold {
		return SizeReasoning
	}
	lower := strings.ToLower(prompt)
	for _, trigger := range reasoningTriggerWords {
		if strings.Contains(lower, trigger) {
			return SizeReasoning
		}
	}
	return SizeDefault
}

func wordCount(s string) int {
	count := 0
	inWord := false
	for _, r := range s {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if !isSpace && !inWord {
			count++
			inWord = true
		} else if isSpace {
			inWord = false
		}
	}
	return count
}
