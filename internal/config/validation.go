package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

func (ve *ValidationErrors) add(field, message string, value interface{}) {
	*ve = append(*ve, ValidationError{Field: field, Value: value, Message: message})
}

// Validate checks the configuration invariants: defaultTimeout/maxAttempts must be
// positive, backoffMultiplier must be positive, and every server entry
// must declare a type of "stdio" or "http" with the fields that type
// requires.
func Validate(cfg Config) error {
	var errs ValidationErrors

	if cfg.MCP.Client.DefaultTimeoutMS <= 0 {
		errs.add("mcp.client.defaultTimeout", "must be a positive number of milliseconds", cfg.MCP.Client.DefaultTimeoutMS)
	}
	if cfg.MCP.Client.Retry.MaxAttempts <= 0 {
		errs.add("mcp.client.retry.maxAttempts", "must be a positive integer", cfg.MCP.Client.Retry.MaxAttempts)
	}
	if cfg.MCP.Client.Retry.BackoffMultiplier <= 0 {
		errs.add("mcp.client.retry.backoffMultiplier", "must be a positive number", cfg.MCP.Client.Retry.BackoffMultiplier)
	}

	for id, sc := range cfg.MCP.Servers {
		field := fmt.Sprintf("mcp.servers.%s", id)
		switch sc.Type {
		case "stdio":
			if strings.TrimSpace(sc.Command) == "" {
				errs.add(field+".command", "is required for a stdio server", sc.Command)
			}
		case "http":
			if strings.TrimSpace(sc.URL) == "" {
				errs.add(field+".url", "is required for an http server", sc.URL)
			}
		default:
			errs.add(field+".type", `must be "stdio" or "http"`, sc.Type)
		}
	}

	if cfg.AI.Enabled && strings.TrimSpace(cfg.AI.Provider) == "" {
		errs.add("ai.provider", "is required when ai.enabled is true", cfg.AI.Provider)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
