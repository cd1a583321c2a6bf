// Package planner turns a validated user utterance, together with a
// Tool Catalog snapshot from the Client Registry, into an Intent and,
// when appropriate, a Tool Plan. A fast path recognizes already-direct
// commands without calling the language model; everything else goes
// through the LLM path, is validated against the command grammar, and
// falls back to the pattern-matching LanguageModel on any invalid
// output.
package planner
