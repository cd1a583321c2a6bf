// Package conversation holds the Conversation Context store: a
// concurrent map of context-id to a bounded, ordered turn history, with
// a background sweeper evicting contexts idle past their TTL. Context
// ids are validated by internal/validator before use; each turn records
// (role, content, timestamp).
package conversation
