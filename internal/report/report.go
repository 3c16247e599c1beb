// Package report assembles what the dashboard shows for one participant:
// individual narrative sections, the analysis blocks and the scores behind them.
package report

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"personality_insights/internal/logger"
	"personality_insights/internal/narrative"
	"personality_insights/internal/results"
)

// NotAvailableMessage is shown in place of a section that could not be located.
const NotAvailableMessage = "Not available for this participant."

var ErrUnknownSection = errors.New("unknown section")

type SectionView struct {
	ParticipantID string         `json:"participant_id"`
	Section       string         `json:"section"`
	Kind          string         `json:"kind"`
	Available     bool           `json:"available"`
	Content       string         `json:"content"`
	Message       string         `json:"message,omitempty"`
	Fallback      bool           `json:"fallback"`
	Rule          narrative.Rule `json:"rule"`
	Score         string         `json:"score,omitempty"`
	Performance   *float64       `json:"performance,omitempty"`
}

type AnalysisView struct {
	ParticipantID string                    `json:"participant_id"`
	Available     bool                      `json:"available"`
	Message       string                    `json:"message,omitempty"`
	Blocks        []narrative.AnalysisBlock `json:"blocks"`
}

type Overview struct {
	ParticipantID string        `json:"participant_id"`
	Found         bool          `json:"found"`
	Message       string        `json:"message,omitempty"`
	Sections      []SectionView `json:"sections"`
	Analysis      AnalysisView  `json:"analysis"`
}

type Service struct {
	Source results.Source
	Logger *logger.Logger
}

func NewService(src results.Source, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{Source: src, Logger: log}
}

func ResolveSection(name string) (narrative.Label, error) {
	l, ok := narrative.LookupLabel(name)
	if !ok {
		return narrative.Label{}, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return l, nil
}

func (s *Service) Section(ctx context.Context, participantID, sectionName string) (SectionView, error) {
	label, err := ResolveSection(sectionName)
	if err != nil {
		return SectionView{}, err
	}
	j, err := s.Source.Justification(ctx, participantID)
	if err != nil {
		return SectionView{}, fmt.Errorf("load justification: %w", err)
	}
	return s.sectionView(j, label), nil
}

func (s *Service) Analysis(ctx context.Context, participantID string) (AnalysisView, error) {
	r, err := s.Source.Result(ctx, participantID)
	if err != nil {
		return AnalysisView{}, fmt.Errorf("load result: %w", err)
	}
	return s.analysisView(r), nil
}

// Overview fetches the justification and the result concurrently, then
// extracts every catalog section and parses the analysis.
func (s *Service) Overview(ctx context.Context, participantID string) (Overview, error) {
	var (
		j results.Justification
		r results.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		j, err = s.Source.Justification(gctx, participantID)
		if err != nil {
			return fmt.Errorf("load justification: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		r, err = s.Source.Result(gctx, participantID)
		if err != nil {
			return fmt.Errorf("load result: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	out := Overview{
		ParticipantID: j.ParticipantID,
		Found:         j.Found || r.Found,
		Analysis:      s.analysisView(r),
	}
	if out.ParticipantID == "" {
		out.ParticipantID = r.ParticipantID
	}
	if !out.Found {
		out.Message = j.Message
	}
	for _, label := range narrative.Catalog() {
		view := s.sectionView(j, label)
		attachScore(&view, label, r)
		out.Sections = append(out.Sections, view)
	}
	return out, nil
}

func (s *Service) sectionView(j results.Justification, label narrative.Label) SectionView {
	if !j.Found {
		msg := j.Message
		if msg == "" {
			msg = results.DefaultMissingMessage
		}
		return SectionView{
			ParticipantID: j.ParticipantID,
			Section:       label.Name,
			Kind:          label.Kind.String(),
			Message:       msg,
		}
	}
	view := SectionFromText(j.ParticipantID, j.Text, label)
	if !view.Available {
		s.Logger.Debug("section not located", "participant", j.ParticipantID, "section", label.Name)
	}
	return view
}

// SectionFromText extracts label from an already loaded narrative.
func SectionFromText(participantID, text string, label narrative.Label) SectionView {
	view := SectionView{
		ParticipantID: participantID,
		Section:       label.Name,
		Kind:          label.Kind.String(),
	}
	ex := narrative.Extract(text, label)
	view.Rule = ex.Rule
	view.Fallback = ex.Fallback
	if !ex.WasFound || ex.Content == "" {
		view.Message = NotAvailableMessage
		return view
	}
	view.Available = true
	view.Content = ex.Content
	return view
}

func (s *Service) analysisView(r results.Result) AnalysisView {
	view := AnalysisView{ParticipantID: r.ParticipantID, Blocks: []narrative.AnalysisBlock{}}
	if !r.Found {
		view.Message = r.Message
		if view.Message == "" {
			view.Message = results.DefaultMissingMessage
		}
		return view
	}
	if blocks := narrative.ParseNarrativeBlocks(r.Analysis); len(blocks) > 0 {
		view.Available = true
		view.Blocks = blocks
		return view
	}
	view.Message = NotAvailableMessage
	return view
}

// attachScore matches the result's score keys ("Openness", "JobPerformance")
// against the label so each section can carry its number.
func attachScore(view *SectionView, label narrative.Label, r results.Result) {
	if !r.Found || label.Meta {
		return
	}
	switch label.Kind {
	case narrative.KindTrait:
		for key, v := range r.Scores {
			if l, ok := narrative.LookupLabel(key); ok && l.Name == label.Name {
				view.Score = v
				return
			}
		}
	case narrative.KindPerformance:
		for key, v := range r.Performance {
			if l, ok := narrative.LookupLabel(key); ok && l.Name == label.Name {
				view.Performance = &v
				return
			}
		}
	}
}
