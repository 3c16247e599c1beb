package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"personality_insights/internal/db"
	"personality_insights/internal/ingest"
	"personality_insights/internal/pipeline"
	"personality_insights/internal/report"
	"personality_insights/internal/results"
	"personality_insights/internal/workspace"
)

func newIngestCmd(a *app) *cobra.Command {
	var (
		name        string
		scores      map[string]string
		performance map[string]string
	)
	cmd := &cobra.Command{
		Use:   "ingest <participant> <justification-file> [analysis-file]",
		Short: "Store a participant's narratives locally",
		Long: `Parses the narrative documents, saves them to the local store and copies
the justification into the participant's workspace project.`,
		Example: `  pid ingest 42 justification.docx analysis.md --score Openness=70.0% --performance JobPerformance=81.5`,
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := results.NormalizeID(args[0])
			if err != nil {
				return err
			}
			perf, err := parsePerformance(performance)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			justification, err := ingest.ParseFile(args[1])
			if err != nil {
				return fmt.Errorf("parse justification: %w", err)
			}
			if err := store.SaveNarrative(ctx, id, name, db.KindJustification, justification.Text); err != nil {
				return err
			}
			if len(args) == 3 {
				analysis, err := ingest.ParseFile(args[2])
				if err != nil {
					return fmt.Errorf("parse analysis: %w", err)
				}
				if err := store.SaveNarrative(ctx, id, name, db.KindAnalysis, analysis.Text); err != nil {
					return err
				}
			}
			if len(scores) > 0 || len(perf) > 0 {
				if err := store.SaveScores(ctx, id, scores, perf); err != nil {
					return err
				}
			}

			root, err := workspace.EnsureAt(a.cfg.Workspace)
			if err != nil {
				return err
			}
			project, err := workspace.CreateProjectWithSource(root, id, filepath.Base(args[1]), justification.SourceBytes)
			if err != nil {
				return err
			}
			a.log.Info("participant ingested", "participant", id, "project", project.ID, "format", justification.Format)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ingested %s into %s\n", id, project.Root)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Participant display name")
	cmd.Flags().StringToStringVar(&scores, "score", nil, "Trait score, e.g. Openness=70.0%")
	cmd.Flags().StringToStringVar(&performance, "performance", nil, "Performance prediction, e.g. JobPerformance=81.5")
	return cmd
}

func parsePerformance(raw map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("performance %s: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}

func newBatchCmd(a *app) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch [participant...]",
		Short: "Build overviews for many participants and write their workspace reports",
		Long: `Builds the overview for each participant concurrently and writes a
report.json summary into each workspace project. Without arguments every
participant in the local store is processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, done, err := a.reports()
			if err != nil {
				return err
			}
			defer done()

			ids := args
			if len(ids) == 0 {
				if ids, err = a.storedParticipantIDs(cmd); err != nil {
					return err
				}
			}
			if len(ids) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no participants to process")
				return err
			}

			root, err := workspace.EnsureAt(a.cfg.Workspace)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.cfg.Workers
			}

			errs := pipeline.Run(ids, workers, func(id string) error {
				ov, err := svc.Overview(ctx, id)
				if err != nil {
					return err
				}
				project, err := workspace.CreateProject(root, id, nil)
				if err != nil {
					return err
				}
				return workspace.SaveReport(project.ReportPath, summarize(ov, time.Now()))
			})
			for _, err := range errs {
				a.log.Error("batch participant failed", "error", err)
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "processed %d participants, %d failed\n", len(ids), len(errs)); err != nil {
				return err
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d of %d participants failed", len(errs), len(ids))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent participants (default from config)")
	return cmd
}

func (a *app) storedParticipantIDs(cmd *cobra.Command) ([]string, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()
	people, err := store.ListParticipants(cmd.Context())
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(people))
	for _, p := range people {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func summarize(ov report.Overview, now time.Time) workspace.Report {
	out := workspace.Report{
		ParticipantID: ov.ParticipantID,
		Found:         ov.Found,
		Located:       []string{},
		Missing:       []string{},
		Fallbacks:     []string{},
		Scores:        map[string]string{},
		Blocks:        len(ov.Analysis.Blocks),
		GeneratedAt:   now.UTC().Format(time.RFC3339),
	}
	for _, s := range ov.Sections {
		switch {
		case !s.Available:
			out.Missing = append(out.Missing, s.Section)
		case s.Fallback:
			out.Fallbacks = append(out.Fallbacks, s.Section)
		default:
			out.Located = append(out.Located, s.Section)
		}
		if s.Score != "" {
			out.Scores[s.Section] = s.Score
		}
		if s.Performance != nil {
			out.Scores[s.Section] = strconv.FormatFloat(*s.Performance, 'f', 2, 64) + "%"
		}
	}
	return out
}
