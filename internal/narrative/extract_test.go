package narrative

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSectionInlineTraits(t *testing.T) {
	text := "- **Agreeableness (58.0):** Works collaboratively.\n- **Openness (70.0):** Curious learner."
	assert.Equal(t, "Works collaboratively.", ExtractSection(text, Agreeableness))
	assert.Equal(t, "Curious learner.", ExtractSection(text, Openness))
}

func TestExtractSectionFullReport(t *testing.T) {
	cases := map[string]string{
		Agreeableness.Name:       "Works collaboratively and seeks consensus.",
		Conscientiousness.Name:   "Plans ahead and follows through on commitments.",
		Extraversion.Name:        "Energised by small groups rather than crowds.",
		Neuroticism.Name:         "Stays calm under deadline pressure.",
		Openness.Name:            "Curious learner who enjoys unfamiliar problems.",
		AcademicPerformance.Name: "Strong planning habits predict steady study routines.\nCuriosity supports deeper engagement with coursework.",
		JobPerformance.Name:      "Reliability and calm make for dependable delivery.\nModerate sociability fits collaborative teams.",
		PlainSummary.Name:        "A dependable, curious collaborator.",
		TraitByTrait.Name:        "1. Trait-by-Trait Justification",
	}
	for _, l := range Catalog() {
		got := Extract(justificationFixture, l)
		assert.True(t, got.WasFound, l.Name)
		assert.False(t, got.Fallback, l.Name)
		assert.Equal(t, l.Name, got.SectionName)
		assert.Equal(t, cases[l.Name], got.Content, l.Name)
	}
}

func TestExtractSectionAbsentLabels(t *testing.T) {
	text := "The candidate is curious.\nThey enjoy novelty."

	trait := Extract(text, Neuroticism)
	assert.False(t, trait.WasFound)
	assert.Equal(t, "", trait.Content)
	assert.Equal(t, RuleNone, trait.Rule)

	perf := Extract(text, JobPerformance)
	assert.True(t, perf.WasFound)
	assert.True(t, perf.Fallback)
	assert.Equal(t, text, perf.Content)
}

func TestExtractSectionsAreDisjoint(t *testing.T) {
	labels := Catalog()
	for i := range labels {
		for j := i + 1; j < len(labels); j++ {
			a := Extract(justificationFixture, labels[i])
			b := Extract(justificationFixture, labels[j])
			if a.Fallback || b.Fallback {
				continue
			}
			shared := sharedLines(a.Content, b.Content)
			assert.Empty(t, shared, "%s / %s", labels[i].Name, labels[j].Name)
		}
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	for _, l := range Catalog() {
		first := Extract(justificationFixture, l)
		for range 3 {
			require.Equal(t, first, Extract(justificationFixture, l))
		}
	}
}

func TestExtractToleratesMalformedInput(t *testing.T) {
	inputs := []string{"", "\n\n", "###", "**", "Justification", strings.Repeat("-", 40)}
	for _, in := range inputs {
		for _, l := range Traits() {
			assert.NotPanics(t, func() { _ = ExtractSection(in, l) })
		}
		assert.NotPanics(t, func() { _ = ParseNarrativeBlocks(in) })
	}
}

func sharedLines(a, b string) []string {
	seen := map[string]struct{}{}
	for _, l := range splitLines(a) {
		if l = strings.TrimSpace(l); l != "" {
			seen[l] = struct{}{}
		}
	}
	var out []string
	for _, l := range splitLines(b) {
		if l = strings.TrimSpace(l); l != "" {
			if _, ok := seen[l]; ok {
				out = append(out, l)
			}
		}
	}
	return out
}
