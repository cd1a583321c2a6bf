// Package languagemodel defines the LanguageModel capability — a single
// complete(prompt) operation — and its two variants: Remote, which calls
// a vendor generative-text API (github.com/openai/openai-go) behind a
// fixed generation configuration, and PatternMatching, a deterministic
// fallback used whenever the remote model is unavailable.
//
// Vendor request/response schemas never leak past this package: every
// caller sees only Complete and the typed failures in mcperr.
package languagemodel
