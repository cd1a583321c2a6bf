package languagemodel

import (
	"context"

	"mcpflow/internal/mcperr"
)

// WithFallback wraps primary so that any failure it reports — except
// validation, which is never retried — is retried exactly once against
// fallback, per the error handling design's one-exception retry policy.
type WithFallback struct {
	Primary  LanguageModel
	Fallback LanguageModel
}

func (w WithFallback) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := w.Primary.Complete(ctx, prompt)
	if err == nil {
		return text, nil
	}
	if kind, ok := mcperr.KindOf(err); ok && kind == mcperr.KindValidation {
		return "", err
	}
	return w.Fallback.Complete(ctx, prompt)
}
