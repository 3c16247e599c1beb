package narrative

import "strings"

type Kind int

const (
	KindTrait Kind = iota
	KindPerformance
)

func (k Kind) String() string {
	switch k {
	case KindPerformance:
		return "performance"
	default:
		return "trait"
	}
}

// FallbackPolicy decides what a lookup returns when no rule matched.
type FallbackPolicy int

const (
	// FallbackEmpty returns nothing so commentary is never attributed to the wrong trait.
	FallbackEmpty FallbackPolicy = iota
	// FallbackWholeText returns the full narrative.
	FallbackWholeText
)

type Label struct {
	Name             string
	Kind             Kind
	Aliases          []string
	MinNonEmptyLines int
	Fallback         FallbackPolicy
	Meta             bool
}

// Candidates lists the strings a heading match tries, highest priority first.
func (l Label) Candidates() []string {
	out := make([]string, 0, len(l.Aliases)+1)
	out = append(out, l.Aliases...)
	if l.Name != "" {
		out = append(out, l.Name)
	}
	return out
}

func (l Label) IsZero() bool {
	return l.Name == ""
}

func trait(name string) Label {
	return Label{Name: name, Kind: KindTrait, MinNonEmptyLines: 1, Fallback: FallbackEmpty}
}

func meta(name string) Label {
	l := trait(name)
	l.Meta = true
	return l
}

func performance(name string) Label {
	return Label{
		Name:             name,
		Kind:             KindPerformance,
		Aliases:          []string{name + " Justification"},
		MinNonEmptyLines: 2,
		Fallback:         FallbackWholeText,
	}
}

var (
	TraitByTrait        = meta("Trait-by-Trait Justification")
	Agreeableness       = trait("Agreeableness")
	Conscientiousness   = trait("Conscientiousness")
	Extraversion        = trait("Extraversion")
	Neuroticism         = trait("Neuroticism")
	Openness            = trait("Openness")
	AcademicPerformance = performance("Academic Performance")
	JobPerformance      = performance("Job Performance")
	PlainSummary        = meta("Plain-English Summary")
)

var catalog = []Label{
	TraitByTrait,
	Agreeableness,
	Conscientiousness,
	Extraversion,
	Neuroticism,
	Openness,
	AcademicPerformance,
	JobPerformance,
	PlainSummary,
}

func Catalog() []Label {
	out := make([]Label, len(catalog))
	copy(out, catalog)
	return out
}

// Traits returns the five personality dimensions, without meta labels.
func Traits() []Label {
	out := make([]Label, 0, 5)
	for _, l := range catalog {
		if l.Kind == KindTrait && !l.Meta {
			out = append(out, l)
		}
	}
	return out
}

func PerformanceLabels() []Label {
	out := make([]Label, 0, 2)
	for _, l := range catalog {
		if l.Kind == KindPerformance {
			out = append(out, l)
		}
	}
	return out
}

// LookupLabel resolves a display name, alias or compact key ("JobPerformance").
func LookupLabel(name string) (Label, bool) {
	key := compactKey(name)
	if key == "" {
		return Label{}, false
	}
	for _, l := range catalog {
		for _, c := range l.Candidates() {
			if compactKey(c) == key {
				return l, true
			}
		}
	}
	return Label{}, false
}

func compactKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '-' || r == '_' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// boundaryNames are the catalog strings that end a heading scan for label,
// i.e. every name and alias except label's own.
func boundaryNames(label Label) []string {
	own := map[string]struct{}{}
	for _, c := range label.Candidates() {
		own[strings.ToLower(c)] = struct{}{}
	}
	out := make([]string, 0, len(catalog)+2)
	for _, l := range catalog {
		for _, c := range l.Candidates() {
			lc := strings.ToLower(c)
			if _, ok := own[lc]; ok {
				continue
			}
			out = append(out, lc)
		}
	}
	return out
}
