package narrative

import "strings"

type Rule string

const (
	RuleHeading   Rule = "heading"
	RuleKeyword   Rule = "keyword"
	RuleWholeText Rule = "whole-text"
	RuleNone      Rule = "none"
)

// Match is the located source material for one label. Indices are source
// line numbers; heading matches are contiguous, keyword matches need not be.
type Match struct {
	Rule     Rule
	Found    bool
	Fallback bool
	Indices  []int
	Lines    []string
}

func (m Match) Text() string {
	return strings.TrimSpace(strings.Join(m.Lines, "\n"))
}

type document struct {
	text  string
	lines []string
}

type locateRule func(doc document, label Label) (Match, bool)

// Evaluated in order; the first rule to return a match wins.
var locateRules = []locateRule{
	headingRule,
	keywordRule,
	policyRule,
}

func Locate(text string, label Label) Match {
	doc := document{text: text, lines: splitLines(text)}
	for _, rule := range locateRules {
		if m, ok := rule(doc, label); ok {
			return m
		}
	}
	return Match{Rule: RuleNone}
}

func headingRule(doc document, label Label) (Match, bool) {
	boundaries := boundaryNames(label)
	for _, candidate := range label.Candidates() {
		lc := strings.ToLower(candidate)
		start := -1
		for i, l := range doc.lines {
			if mentions(l, lc) {
				start = i
				break
			}
		}
		if start < 0 {
			continue
		}
		end := len(doc.lines)
		for j := start + 1; j < len(doc.lines); j++ {
			if mentionsAny(doc.lines[j], boundaries) {
				end = j
				break
			}
		}
		chunk := doc.lines[start:end]
		if countNonEmpty(chunk) < label.MinNonEmptyLines {
			continue
		}
		return Match{
			Rule:    RuleHeading,
			Found:   true,
			Indices: span(start, end),
			Lines:   append([]string(nil), chunk...),
		}, true
	}
	return Match{}, false
}

// keywordRule collects every line naming the label, wherever it sits.
// It has no boundary check, so prose about another section that names this
// label is picked up as well.
func keywordRule(doc document, label Label) (Match, bool) {
	lc := strings.ToLower(label.Name)
	if lc == "" {
		return Match{}, false
	}
	var (
		indices []int
		lines   []string
	)
	for i, l := range doc.lines {
		if mentions(l, lc) {
			indices = append(indices, i)
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 || len(lines) < label.MinNonEmptyLines {
		return Match{}, false
	}
	return Match{Rule: RuleKeyword, Found: true, Indices: indices, Lines: lines}, true
}

func policyRule(doc document, label Label) (Match, bool) {
	if label.Fallback != FallbackWholeText || strings.TrimSpace(doc.text) == "" {
		return Match{Rule: RuleNone}, true
	}
	return Match{
		Rule:     RuleWholeText,
		Found:    true,
		Fallback: true,
		Indices:  span(0, len(doc.lines)),
		Lines:    append([]string(nil), doc.lines...),
	}, true
}

func span(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}
