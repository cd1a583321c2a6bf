package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpflow/internal/mcpclient"
)

func TestResolvePath_DotAndBracketNavigation(t *testing.T) {
	root := map[string]any{
		"databases": []any{
			map[string]any{"name": "admin"},
			map[string]any{"name": "local"},
		},
	}
	v, ok := resolvePath(root, "databases[0].name")
	require.True(t, ok)
	assert.Equal(t, "admin", v)

	_, ok = resolvePath(root, "databases[5].name")
	assert.False(t, ok)
}

func TestSubstitute_ReplacesTokenFromPriorStepResult(t *testing.T) {
	s := newSubstitutor()
	s.record(1, mcpclient.ToolResult{Content: []mcpclient.ContentItem{
		{Kind: mcpclient.ContentText, Text: `{"databases":[{"name":"admin"},{"name":"local"}]}`},
	}})

	out := s.substitute(2, map[string]any{"database": "${step_1.databases[0].name}"})
	assert.Equal(t, "admin", out["database"])
}

func TestSubstitute_MissingTokenResolvesToEmptyString(t *testing.T) {
	s := newSubstitutor()
	out := s.substitute(2, map[string]any{"database": "${step_1.missing}"})
	assert.Equal(t, "", out["database"])
}

func TestSubstitute_NoTokensReturnsMapUnchanged(t *testing.T) {
	s := newSubstitutor()
	in := map[string]any{"database": "admin", "limit": 10}
	out := s.substitute(1, in)
	assert.True(t, mapsEqual(in, out))
}

func mapsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
