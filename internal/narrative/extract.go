// Package narrative pulls labelled sections out of AI-written assessment
// narratives and breaks heading-delimited analyses into display blocks.
// Every function is a pure transformation of its arguments.
//
// ParseNarrativeBlocks splits on "###" headings. Text with no such heading
// yields a single block titled by its first non-blank line, and blank text
// yields no blocks.
package narrative

type ExtractedSection struct {
	SectionName string `json:"section"`
	Content     string `json:"content"`
	WasFound    bool   `json:"found"`
	Fallback    bool   `json:"fallback"`
	Rule        Rule   `json:"rule"`
}

func Extract(text string, label Label) ExtractedSection {
	m := Locate(text, label)
	out := ExtractedSection{
		SectionName: label.Name,
		WasFound:    m.Found,
		Fallback:    m.Fallback,
		Rule:        m.Rule,
	}
	if m.Found {
		out.Content = Clean(m.Text(), label)
	}
	return out
}

// ExtractSection returns display-ready prose for label. It is empty only
// when a trait label could not be located.
func ExtractSection(text string, label Label) string {
	return Extract(text, label).Content
}
