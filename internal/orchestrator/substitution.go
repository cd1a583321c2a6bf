package orchestrator

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"mcpflow/internal/mcpclient"
	"mcpflow/pkg/logging"
)

// tokenPattern matches a single `${step_N.path}` substitution token.
var tokenPattern = regexp.MustCompile(`\$\{step_(\d+)\.([a-zA-Z0-9_.\[\]]+)\}`)

// resultValue turns one step's ToolResult into a generic value that
// dot/bracket paths can navigate: a structured ContentData item is used
// as-is, a text item is parsed as JSON when possible, and anything else
// degrades to a single-field map so a path lookup simply fails closed.
func resultValue(tr mcpclient.ToolResult) any {
	for _, item := range tr.Content {
		switch item.Kind {
		case mcpclient.ContentData:
			return map[string]any(item.Data)
		case mcpclient.ContentText:
			if v, ok := parseJSONLoose(item.Text); ok {
				return v
			}
			return map[string]any{"text": item.Text}
		}
	}
	return map[string]any{}
}

func parseJSONLoose(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// resolvePath navigates root via a dot/bracket-index path such as
// "databases[0].name", supporting both map-field and slice-index
// segments (e.g. `${step_1.databases[0].name}`).
func resolvePath(root any, path string) (any, bool) {
	current := root
	for _, segment := range splitPath(path) {
		if segment.field != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			current, ok = m[segment.field]
			if !ok {
				return nil, false
			}
		}
		for _, idx := range segment.indices {
			s, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(s) {
				return nil, false
			}
			current = s[idx]
		}
	}
	return current, true
}

type pathSegment struct {
	field   string
	indices []int
}

func splitPath(path string) []pathSegment {
	var segments []pathSegment
	for _, raw := range strings.Split(path, ".") {
		seg := pathSegment{}
		field := raw
		for {
			open := strings.IndexByte(field, '[')
			if open < 0 {
				break
			}
			closeIdx := strings.IndexByte(field[open:], ']')
			if closeIdx < 0 {
				break
			}
			closeIdx += open
			if n, err := strconv.Atoi(field[open+1 : closeIdx]); err == nil {
				seg.indices = append(seg.indices, n)
			}
			field = field[:open] + field[closeIdx+1:]
		}
		seg.field = field
		segments = append(segments, seg)
	}
	return segments
}

// substitutor resolves `${step_N.path}` tokens against a running table of
// completed step results.
type substitutor struct {
	results map[int]mcpclient.ToolResult
}

func newSubstitutor() *substitutor {
	return &substitutor{results: make(map[int]mcpclient.ToolResult)}
}

func (s *substitutor) record(step int, result mcpclient.ToolResult) {
	s.results[step] = result
}

// substitute walks params and replaces every `${step_N.path}` token found
// in string values. A missing step or path resolves to the empty string
// and is logged at warning level. Non-string values pass through
// untouched. If params contains no tokens at all, the original map is
// returned unchanged.
func (s *substitutor) substitute(step int, params map[string]any) map[string]any {
	hasToken := false
	for _, v := range params {
		if str, ok := v.(string); ok && tokenPattern.MatchString(str) {
			hasToken = true
			break
		}
	}
	if !hasToken {
		return params
	}

	out := make(map[string]any, len(params))
	for k, v := range params {
		str, ok := v.(string)
		if !ok {
			out[k] = v
			continue
		}
		out[k] = tokenPattern.ReplaceAllStringFunc(str, func(token string) string {
			m := tokenPattern.FindStringSubmatch(token)
			n, _ := strconv.Atoi(m[1])
			path := m[2]
			result, ok := s.results[n]
			if !ok {
				logging.Warn("orchestrator", "step %d: token %q references unresolved step %d", step, token, n)
				return ""
			}
			value, ok := resolvePath(resultValue(result), path)
			if !ok {
				logging.Warn("orchestrator", "step %d: token %q did not resolve against step %d's result", step, token, n)
				return ""
			}
			return stringify(value)
		})
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
