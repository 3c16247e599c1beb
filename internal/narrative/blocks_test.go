package narrative

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNarrativeBlocksParagraph(t *testing.T) {
	got := ParseNarrativeBlocks("### Openness\nHigh openness to new ideas.")
	want := []AnalysisBlock{{
		Title: "Openness",
		Kind:  BlockParagraph,
		Items: []Item{{Description: "High openness to new ideas."}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNarrativeBlocksEmphasisItem(t *testing.T) {
	got := ParseNarrativeBlocks("### Strengths\n- **Empathy:** Works well with teams")
	want := []AnalysisBlock{{
		Title: "Strengths",
		Kind:  BlockList,
		Items: []Item{{Title: "Empathy", Description: "Works well with teams"}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNarrativeBlocksFullAnalysis(t *testing.T) {
	got := ParseNarrativeBlocks(analysisFixture)
	want := []AnalysisBlock{
		{
			Title: "🧠 The Executive Summary",
			Kind:  BlockParagraph,
			Items: []Item{{Description: "The Compassionate Architect: organised, warm and quietly ambitious."}},
		},
		{
			Title: "⚡ Key Strengths (Superpowers)",
			Kind:  BlockList,
			Items: []Item{
				{Title: "Reliability", Description: "Delivers what was promised."},
				{Title: "Curiosity", Description: "Keeps learning outside the brief."},
				{Title: "Composure", Description: "Calm when plans change."},
			},
		},
		{
			Title: "⚠️ Potential Blind Spots",
			Kind:  BlockParagraph,
			Items: []Item{
				{Description: "May over-commit when colleagues ask for help."},
				{Description: "Can delay decisions while gathering more data."},
			},
		},
		{
			Title: "🚀 3 Tailored Growth Strategies",
			Kind:  BlockList,
			Items: []Item{
				{Title: "Delegate", Description: "Hand off one recurring task each week."},
				{Title: "Timebox", Description: "Set a decision deadline before researching."},
				{Description: "Keep a short reflection journal."},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNarrativeBlocksPreservesHeadingOrder(t *testing.T) {
	titles := []string{"Zeta", "Alpha", "Mu", "Beta"}
	var b strings.Builder
	for _, title := range titles {
		b.WriteString("### " + title + "\nbody for " + title + "\n\n")
	}
	blocks := ParseNarrativeBlocks(b.String())
	require.Len(t, blocks, len(titles))
	for i, blk := range blocks {
		assert.Equal(t, titles[i], blk.Title)
	}
}

func TestParseNarrativeBlocksEdgeCases(t *testing.T) {
	assert.Empty(t, ParseNarrativeBlocks(""))
	assert.Empty(t, ParseNarrativeBlocks("###\n   \n###"))

	blocks := ParseNarrativeBlocks("Intro line\n### Only Title")
	require.Len(t, blocks, 2)
	assert.Equal(t, "Intro line", blocks[0].Title)
	assert.Equal(t, "Only Title", blocks[1].Title)
	assert.Equal(t, BlockParagraph, blocks[1].Kind)
	assert.Empty(t, blocks[1].Items)

	// a decimal inside prose does not make a list
	blocks = ParseNarrativeBlocks("### Scores\nOpenness sits at 70.5 percent.")
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockParagraph, blocks[0].Kind)

	// emphasis with nothing after it keeps the leading text as description
	blocks = ParseNarrativeBlocks("### Notes\n- Lead **Bold**")
	require.Len(t, blocks, 1)
	assert.Equal(t, Item{Title: "Bold", Description: "Lead"}, blocks[0].Items[0])
}

func TestParseNarrativeBlocksWithoutHeadings(t *testing.T) {
	blocks := ParseNarrativeBlocks("\n  Plain analysis without headings.\nSecond line.\n")
	require.Len(t, blocks, 1)
	assert.Equal(t, AnalysisBlock{
		Title: "Plain analysis without headings.",
		Kind:  BlockParagraph,
		Items: []Item{{Description: "Second line."}},
	}, blocks[0])
}

func TestParseNarrativeBlocksIsDeterministic(t *testing.T) {
	first := ParseNarrativeBlocks(analysisFixture)
	for range 5 {
		if diff := cmp.Diff(first, ParseNarrativeBlocks(analysisFixture)); diff != "" {
			t.Fatalf("non-deterministic parse:\n%s", diff)
		}
	}
}
