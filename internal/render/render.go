// Package render prints sections and analysis blocks to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"personality_insights/internal/narrative"
	"personality_insights/internal/report"
)

const defaultWidth = 80

type Options struct {
	// Plain disables colour and markdown rendering, for pipes and tests.
	Plain bool
	Width int

	// Theme names a glamour standard style; empty or "auto" follows the
	// terminal background.
	Theme string
}

type styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Item     lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Score    lipgloss.Style
}

func newStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8A8A8")).
			Italic(true),
		Item: lipgloss.NewStyle().
			PaddingLeft(2),
		Bold: lipgloss.NewStyle().
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C6C6C")),
		Score: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
	}
}

type Renderer struct {
	plain  bool
	width  int
	md     *glamour.TermRenderer
	styles styles
}

func New(opts Options) (*Renderer, error) {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	r := &Renderer{plain: opts.Plain, width: width, styles: newStyles()}
	if opts.Plain {
		return r, nil
	}
	style := glamour.WithAutoStyle()
	if theme := strings.ToLower(strings.TrimSpace(opts.Theme)); theme != "" && theme != "auto" {
		style = glamour.WithStandardStyle(theme)
	}
	md, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	r.md = md
	return r, nil
}

func (r *Renderer) Blocks(w io.Writer, blocks []narrative.AnalysisBlock) error {
	if len(blocks) == 0 {
		_, err := fmt.Fprintln(w, r.style(r.styles.Muted, report.NotAvailableMessage))
		return err
	}
	var b strings.Builder
	for i, blk := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.style(r.styles.Title, "## "+blk.Title))
		b.WriteString("\n")
		for _, item := range blk.Items {
			b.WriteString(r.item(blk.Kind, item))
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) item(kind narrative.BlockKind, item narrative.Item) string {
	var line string
	if item.Title != "" {
		line = r.style(r.styles.Bold, item.Title+":") + " " + item.Description
	} else {
		line = item.Description
	}
	if kind == narrative.BlockList {
		line = "• " + line
	}
	if r.plain {
		return "  " + line
	}
	return r.styles.Item.Render(line)
}

func (r *Renderer) Section(w io.Writer, view report.SectionView) error {
	header := view.Section
	if score := scoreLabel(view); score != "" {
		header += " " + r.style(r.styles.Score, "("+score+")")
	}
	if _, err := fmt.Fprintln(w, r.style(r.styles.Title, header)); err != nil {
		return err
	}
	if !view.Available {
		msg := view.Message
		if msg == "" {
			msg = report.NotAvailableMessage
		}
		_, err := fmt.Fprintln(w, r.style(r.styles.Muted, msg))
		return err
	}
	body := view.Content
	if view.Fallback {
		if _, err := fmt.Fprintln(w, r.style(r.styles.Subtitle, "(full narrative shown)")); err != nil {
			return err
		}
	}
	if r.md != nil {
		out, err := r.md.Render(body)
		if err != nil {
			return fmt.Errorf("render section %s: %w", view.Section, err)
		}
		body = strings.TrimRight(out, "\n")
	}
	_, err := fmt.Fprintln(w, body)
	return err
}

func (r *Renderer) Overview(w io.Writer, ov report.Overview) error {
	if _, err := fmt.Fprintln(w, r.style(r.styles.Subtitle, "Participant "+ov.ParticipantID)); err != nil {
		return err
	}
	if !ov.Found {
		_, err := fmt.Fprintln(w, r.style(r.styles.Muted, ov.Message))
		return err
	}
	for _, s := range ov.Sections {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := r.Section(w, s); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return r.Blocks(w, ov.Analysis.Blocks)
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func scoreLabel(view report.SectionView) string {
	if view.Score != "" {
		return view.Score
	}
	if view.Performance != nil {
		return fmt.Sprintf("%.1f%%", *view.Performance)
	}
	return ""
}
