package planner

import (
	"regexp"
	"strings"
)

var multiStepCues = []string{
	" then ", " and then ", "first,", "first ", "second,", "next,", "next ", "finally,", "afterwards",
}

var ordinalCue = regexp.MustCompile(`(?i)\b(first|second|third|finally)\b`)

// IsMultiStep reports whether utterance reads as a sequence of steps:
// conjunctions ("and then"), ordinal cues ("first... then..."), or the
// word "then" used as a connector.
func IsMultiStep(utterance string) bool {
	lower := " " + strings.ToLower(utterance) + " "
	for _, cue := range multiStepCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return ordinalCue.MatchString(utterance)
}

var stepTokenPattern = regexp.MustCompile(`\$\{step_(\d+)\.[^}]+\}`)

// InferredDependencies scans every string value in params for
// `${step_N.path}` tokens and returns the distinct set of referenced
// step numbers, in ascending order.
func InferredDependencies(params map[string]any) []int {
	seen := map[int]bool{}
	for _, v := range params {
		s, ok := v.(string)
		if !ok {
			continue
		}
		for _, m := range stepTokenPattern.FindAllStringSubmatch(s, -1) {
			n := 0
			for _, c := range m[1] {
				n = n*10 + int(c-'0')
			}
			seen[n] = true
		}
	}
	deps := make([]int, 0, len(seen))
	for n := range seen {
		deps = append(deps, n)
	}
	sortInts(deps)
	return deps
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
