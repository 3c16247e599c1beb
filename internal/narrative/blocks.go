package narrative

import (
	"regexp"
	"strings"
)

const (
	HeadingDelimiter  = "###"
	EmphasisDelimiter = "**"
)

type BlockKind string

const (
	BlockList      BlockKind = "list"
	BlockParagraph BlockKind = "paragraph"
)

type Item struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
}

type AnalysisBlock struct {
	Title string    `json:"title"`
	Kind  BlockKind `json:"kind"`
	Items []Item    `json:"items"`
}

var (
	listLead   = regexp.MustCompile(`^(?:[*-]|\d+\.)`)
	listMarker = regexp.MustCompile(`^(?:[*-]|\d+\.)\s*`)
)

func ParseNarrativeBlocks(text string) []AnalysisBlock {
	segments := strings.Split(text, HeadingDelimiter)
	blocks := make([]AnalysisBlock, 0, len(segments))
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		blocks = append(blocks, parseSegment(seg))
	}
	return blocks
}

func parseSegment(seg string) AnalysisBlock {
	var (
		title   string
		content []string
	)
	for _, l := range splitLines(seg) {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if title == "" {
			title = l
			continue
		}
		content = append(content, l)
	}

	block := AnalysisBlock{Title: title, Kind: BlockParagraph, Items: make([]Item, 0, len(content))}
	for _, l := range content {
		if listLead.MatchString(l) {
			block.Kind = BlockList
			break
		}
	}
	for _, l := range content {
		if block.Kind == BlockList {
			block.Items = append(block.Items, parseListItem(l))
			continue
		}
		block.Items = append(block.Items, Item{Description: l})
	}
	return block
}

func parseListItem(l string) Item {
	stripped := stripListMarker(l)
	parts := strings.Split(stripped, EmphasisDelimiter)
	if len(parts) < 3 {
		return Item{Description: stripped}
	}
	title := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(parts[1]), ":"))
	desc := strings.TrimSpace(strings.TrimLeft(strings.Join(parts[2:], EmphasisDelimiter), ": \t"))
	if desc == "" {
		desc = strings.TrimSpace(parts[0])
	}
	return Item{Title: title, Description: desc}
}

// A line opening with "**" is an emphasised title, not a "*" bullet.
func stripListMarker(l string) string {
	if strings.HasPrefix(l, EmphasisDelimiter) {
		return l
	}
	return strings.TrimSpace(listMarker.ReplaceAllString(l, ""))
}
