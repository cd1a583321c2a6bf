// Package validator screens every user-supplied string before it is
// concatenated into a language-model prompt: length and whitespace
// guards, a fixed set of prompt-injection patterns, suspect-Unicode
// stripping, and normalization. It also validates conversation
// context identifiers against their own, stricter grammar.
package validator
