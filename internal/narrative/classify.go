package narrative

import (
	"regexp"
	"strings"
)

type lineKind int

const (
	lineBlank lineKind = iota
	// lineMarker is decoration with no prose: a standalone "Justification"
	// heading or a bare list/emphasis marker.
	lineMarker
	lineHeading
	lineBullet
	linePlain
)

type line struct {
	kind lineKind
	raw  string
	text string
}

var (
	bulletRun          = regexp.MustCompile(`^\s*(?:(?:[-*•]+|\d+[.)])\s+)+`)
	markerOnly         = regexp.MustCompile(`^[\s\-*•#:_]*(?:\d+[.)])?[\s\-*•#:_]*$`)
	justificationLine  = regexp.MustCompile(`(?i)^[\s\-*•#_]*(?:\d+[.)]\s*)?[\s*_#]*justification[\s*_]*:?[\s*_]*$`)
	headingPatternBase = `(?i)^(\s*(?:(?:[-*•]+|\d+[.)])\s*)*(?:#{1,6}\s*)?[*_]*\s*)(%s)((?:\s*[*_]+)?(?:\s*\([^)]*\))?(?:\s*[*_]+)?(?:\s*:)?(?:\s*[*_]+)?)\s*`
)

var headingPatterns = map[string][]*regexp.Regexp{}

func init() {
	for _, l := range catalog {
		headingPatterns[l.Name] = compileHeadings(l)
	}
}

func compileHeadings(l Label) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(l.Aliases)+1)
	for _, c := range l.Candidates() {
		pattern := strings.Replace(headingPatternBase, "%s", regexp.QuoteMeta(c), 1)
		out = append(out, regexp.MustCompile(pattern))
	}
	return out
}

func headingsFor(l Label) []*regexp.Regexp {
	if p, ok := headingPatterns[l.Name]; ok && len(p) == len(l.Candidates()) {
		return p
	}
	return compileHeadings(l)
}

// classifyLine tags one source line. Heading detection only runs when
// heading is non-zero, since only the opening line of a section may carry one.
func classifyLine(raw string, heading Label) line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return line{kind: lineBlank, raw: raw}
	}
	if justificationLine.MatchString(trimmed) || markerOnly.MatchString(trimmed) {
		return line{kind: lineMarker, raw: raw}
	}
	if !heading.IsZero() {
		if rest, ok := stripHeading(trimmed, heading); ok {
			return line{kind: lineHeading, raw: raw, text: rest}
		}
	}
	if loc := bulletRun.FindStringIndex(trimmed); loc != nil {
		return line{kind: lineBullet, raw: raw, text: strings.TrimSpace(trimmed[loc[1]:])}
	}
	return line{kind: linePlain, raw: raw, text: trimmed}
}

// stripHeading removes a "- **Name (score):**" style prefix. The name alone
// only counts as a heading when decoration follows it or nothing does, so
// prose such as "Openness is high" is left intact.
func stripHeading(s string, l Label) (string, bool) {
	for _, re := range headingsFor(l) {
		m := re.FindStringSubmatchIndex(s)
		if m == nil {
			continue
		}
		decoration := s[m[6]:m[7]]
		rest := strings.TrimSpace(s[m[1]:])
		if strings.TrimSpace(decoration) != "" || rest == "" {
			return rest, true
		}
	}
	return "", false
}

func mentions(raw, lowerName string) bool {
	return strings.Contains(strings.ToLower(raw), lowerName)
}

func mentionsAny(raw string, lowerNames []string) bool {
	lower := strings.ToLower(raw)
	for _, n := range lowerNames {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func countNonEmpty(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}
