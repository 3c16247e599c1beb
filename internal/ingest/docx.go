package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// docxParagraph collects one w:p while the document is streamed.
type docxParagraph struct {
	heading bool
	list    bool
	runs    []docxRun
}

type docxRun struct {
	text string
	bold bool
}

// parseDOCX flattens word/document.xml into the narrative's markdown shape:
// Heading/Title styled paragraphs become "### " lines, numbered or bulleted
// paragraphs become "- " items and bold runs are wrapped in "**".
func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var xmlData []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, openErr := f.Open()
		if openErr != nil {
			return "", fmt.Errorf("open document.xml: %w", openErr)
		}
		xmlData, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		break
	}
	if len(xmlData) == 0 {
		return "", fmt.Errorf("word/document.xml not found")
	}

	decoder := xml.NewDecoder(bytes.NewReader(xmlData))
	var (
		lines  []string
		para   *docxParagraph
		run    *docxRun
		inText bool
	)
	for {
		tok, tokenErr := decoder.Token()
		if tokenErr == io.EOF {
			break
		}
		if tokenErr != nil {
			return "", fmt.Errorf("decode document.xml: %w", tokenErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para = &docxParagraph{}
			case "pStyle":
				if para != nil && isHeadingStyle(attrVal(t)) {
					para.heading = true
				}
			case "numPr":
				if para != nil {
					para.list = true
				}
			case "r":
				run = &docxRun{}
			case "b":
				if run != nil {
					v := strings.ToLower(attrVal(t))
					run.bold = v != "0" && v != "false"
				}
			case "t":
				inText = true
			case "tab":
				if run != nil {
					run.text += " "
				}
			case "br":
				if run != nil {
					run.text += "\n"
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				if run != nil && para != nil {
					para.runs = append(para.runs, *run)
				}
				run = nil
			case "p":
				if para != nil {
					lines = append(lines, para.render())
				}
				para = nil
			}
		case xml.CharData:
			if inText && run != nil {
				run.text += string(t)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (p *docxParagraph) render() string {
	var b strings.Builder
	if p.heading {
		for _, r := range p.runs {
			b.WriteString(r.text)
		}
	} else {
		for _, r := range mergeRuns(p.runs) {
			b.WriteString(emphasize(r))
		}
	}
	text := strings.TrimSpace(b.String())
	switch {
	case text == "":
		return ""
	case p.heading:
		return "### " + text
	case p.list:
		return "- " + text
	}
	return text
}

// mergeRuns joins neighbouring runs with the same weight; Word splits runs
// on spell-check and revision boundaries.
func mergeRuns(runs []docxRun) []docxRun {
	var out []docxRun
	for _, r := range runs {
		if n := len(out); n > 0 && out[n-1].bold == r.bold {
			out[n-1].text += r.text
			continue
		}
		out = append(out, r)
	}
	return out
}

// emphasize keeps surrounding whitespace outside the "**" markers.
func emphasize(r docxRun) string {
	core := strings.TrimSpace(r.text)
	if !r.bold || core == "" {
		return r.text
	}
	lead := r.text[:strings.Index(r.text, core)]
	trail := r.text[len(lead)+len(core):]
	return lead + "**" + core + "**" + trail
}

func isHeadingStyle(style string) bool {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	return strings.HasPrefix(s, "heading") || s == "title" || s == "subtitle"
}

func attrVal(t xml.StartElement) string {
	for _, a := range t.Attr {
		if a.Name.Local == "val" {
			return a.Value
		}
	}
	return ""
}
