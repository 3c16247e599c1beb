package ingest

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personality_insights/internal/narrative"
)

func TestParseDOCX(t *testing.T) {
	raw := buildDOCX(t, `<w:document><w:body><w:p><w:r><w:t>1. Trait-by-Trait Justification</w:t></w:r></w:p><w:p><w:r><w:t>- **Openness (70.0):** Curious learner.</w:t></w:r></w:p></w:body></w:document>`)
	got, err := parseDOCX(raw)
	require.NoError(t, err)
	assert.Equal(t, "1. Trait-by-Trait Justification\n- **Openness (70.0):** Curious learner.", got)
}

func TestParseDOCXKeepsNarrativeStructure(t *testing.T) {
	body := `<w:document><w:body>` +
		`<w:p><w:pPr><w:pStyle w:val="Heading3"/></w:pPr><w:r><w:t>Key Strengths</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Empathy: </w:t></w:r>` +
		`<w:r><w:t>Works well with teams</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:pStyle w:val="Heading3"/></w:pPr><w:r><w:t>Blind Spots</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Over-commits.</w:t></w:r><w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t xml:space="preserve"> Rarely.</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	path := filepath.Join(t.TempDir(), "analysis.docx")
	require.NoError(t, os.WriteFile(path, buildDOCX(t, body), 0o644))

	parsed, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "### Key Strengths\n- **Empathy:** Works well with teams\n### Blind Spots\nOver-commits. Rarely.", parsed.Text)

	blocks := narrative.ParseNarrativeBlocks(parsed.Text)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Key Strengths", blocks[0].Title)
	assert.Equal(t, narrative.BlockList, blocks[0].Kind)
	assert.Equal(t, []narrative.Item{{Title: "Empathy", Description: "Works well with teams"}}, blocks[0].Items)
	assert.Equal(t, "Blind Spots", blocks[1].Title)
	assert.Equal(t, narrative.BlockParagraph, blocks[1].Kind)
}

func TestParseDOCXMergesSplitBoldRuns(t *testing.T) {
	raw := buildDOCX(t, `<w:document><w:body><w:p><w:pPr><w:numPr/></w:pPr>`+
		`<w:r><w:rPr><w:b/></w:rPr><w:t>Open</w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>ness (70.0):</w:t></w:r>`+
		`<w:r><w:t xml:space="preserve"> Curious</w:t></w:r><w:r><w:tab/><w:t>learner.</w:t></w:r></w:p></w:body></w:document>`)
	got, err := parseDOCX(raw)
	require.NoError(t, err)
	assert.Equal(t, "- **Openness (70.0):** Curious learner.", got)
	assert.Equal(t, "Curious learner.", narrative.ExtractSection(got, narrative.Openness))
}

func TestParseFileText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p1-justification.md")
	body := "\xef\xbb\xbf1. Trait-by-Trait Justification\r\n\r\n-   **Openness (70.0):**   Curious\tlearner.\r\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	parsed, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "p1-justification", parsed.Title)
	assert.Equal(t, "md", parsed.Format)
	assert.Equal(t, "1. Trait-by-Trait Justification\n- **Openness (70.0):** Curious learner.", parsed.Text)
}

func TestParseFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.rtf")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	_, err := ParseFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
	assert.Contains(t, err.Error(), ".docx")
}

func TestNormalizeComposesUnicode(t *testing.T) {
	decomposed := "Cafe\u0301 culture"
	assert.Equal(t, "Caf\u00e9 culture", Normalize(decomposed))
	assert.Equal(t, "a\nb", Normalize("a\r\rb"))
	assert.Equal(t, "", Normalize(" \n\t\n"))
}

func buildDOCX(t *testing.T, bodyXML string) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	xml := `<?xml version="1.0" encoding="UTF-8"?>` + bodyXML
	_, err = f.Write([]byte(xml))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return b.Bytes()
}
