// Package matcher scores free-text product names against the inventory
// vocabulary using the SequenceMatcher ratio (2*M/T over runes).
package matcher

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const DefaultThreshold = 0.6

// Result of matching one name against a vocabulary. Score is always the
// best raw score, even when Matched is false.
type Result struct {
	Name      string  `json:"name,omitempty"`
	Matched   bool    `json:"matched"`
	Score     float64 `json:"score"`
	Ambiguous bool    `json:"ambiguous,omitempty"`
}

type Matcher struct {
	threshold float64
	epsilon   float64
}

// New returns a matcher accepting scores >= threshold. A positive epsilon
// rejects matches whose runner-up (a different name) scores within epsilon
// of the best one.
func New(threshold, epsilon float64) (*Matcher, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("match threshold must be in (0, 1], got %v", threshold)
	}
	if epsilon < 0 || epsilon >= 1 {
		return nil, fmt.Errorf("ambiguity epsilon must be in [0, 1), got %v", epsilon)
	}
	return &Matcher{threshold: threshold, epsilon: epsilon}, nil
}

func (m *Matcher) Threshold() float64 { return m.threshold }

// Similarity compares trimmed, lowercased names.
func Similarity(a, b string) float64 {
	ra := runes(normalize(a))
	rb := runes(normalize(b))
	return difflib.NewMatcher(ra, rb).Ratio()
}

// Match finds the best-scoring vocabulary entry. Ties keep the earliest entry.
func (m *Matcher) Match(name string, vocabulary []string) Result {
	if len(vocabulary) == 0 {
		return Result{}
	}

	query := runes(normalize(name))
	sm := difflib.NewMatcher(nil, nil)
	sm.SetSeq1(query)

	bestIdx := -1
	best, runnerUp := 0.0, 0.0
	for i, candidate := range vocabulary {
		sm.SetSeq2(runes(normalize(candidate)))
		score := sm.Ratio()
		if bestIdx == -1 || score > best {
			if bestIdx != -1 && !sameName(vocabulary[bestIdx], candidate) {
				runnerUp = best
			}
			best, bestIdx = score, i
			continue
		}
		if score > runnerUp && !sameName(vocabulary[bestIdx], candidate) {
			runnerUp = score
		}
	}

	res := Result{Score: best}
	if best < m.threshold {
		return res
	}
	if m.epsilon > 0 && len(vocabulary) > 1 && best-runnerUp < m.epsilon {
		res.Ambiguous = true
		return res
	}
	res.Name = vocabulary[bestIdx]
	res.Matched = true
	return res
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func sameName(a, b string) bool {
	return normalize(a) == normalize(b)
}

// runes splits s into one element per UTF-8 encoded rune.
func runes(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "")
}
