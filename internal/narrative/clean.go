package narrative

import (
	"regexp"
	"strings"
)

var strayMarker = regexp.MustCompile(`^\s*[-*•]+\s+`)

// Clean strips heading and bullet decoration from a located chunk. Applying
// it to its own output is a no-op.
func Clean(chunk string, label Label) string {
	kept := make([]string, 0, 8)
	for _, raw := range splitLines(chunk) {
		if text, ok := cleanLine(raw, label, len(kept) == 0); ok {
			kept = append(kept, text)
		}
	}
	cleaned := strayMarker.ReplaceAllString(strings.Join(kept, "\n"), "")
	cleaned = strings.TrimSpace(cleaned)
	return label.Fallback.settle(cleaned, chunk)
}

// cleanLine peels decoration until the line is plain prose. The first
// surviving line of a chunk is also allowed to shed a heading prefix.
func cleanLine(raw string, label Label, first bool) (string, bool) {
	var heading Label
	if first {
		heading = label
	}
	text := raw
	for {
		l := classifyLine(text, heading)
		switch l.kind {
		case lineBlank, lineMarker:
			return "", false
		case lineHeading, lineBullet:
			if len(l.text) >= len(strings.TrimSpace(text)) {
				return l.text, true
			}
			text = l.text
		default:
			return l.text, true
		}
	}
}

func (p FallbackPolicy) settle(cleaned, raw string) string {
	switch p {
	case FallbackWholeText:
		if countNonEmpty(splitLines(cleaned)) >= 1 {
			return cleaned
		}
		return raw
	default:
		if cleaned != "" {
			return cleaned
		}
		return strings.TrimSpace(raw)
	}
}
