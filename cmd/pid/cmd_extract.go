package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"personality_insights/internal/ingest"
	"personality_insights/internal/narrative"
	"personality_insights/internal/report"
)

func newSectionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List the narrative sections that can be extracted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			labels := narrative.Catalog()
			if a.jsonOut {
				names := make([]string, 0, len(labels))
				for _, l := range labels {
					names = append(names, l.Name)
				}
				return writeJSON(out, names)
			}
			for _, l := range labels {
				kind := l.Kind.String()
				if l.Meta {
					kind = "heading"
				}
				if _, err := fmt.Fprintf(out, "%-30s %s\n", l.Name, kind); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		file        string
		participant string
		section     string
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract one section from a justification narrative",
		Example: `  pid extract --file report.md --section Openness
  pid extract --participant 42 --section "Job Performance"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oneOf(file, participant); err != nil {
				return err
			}
			var view report.SectionView
			if file != "" {
				label, err := report.ResolveSection(section)
				if err != nil {
					return err
				}
				parsed, err := ingest.ParseFile(file)
				if err != nil {
					return err
				}
				view = report.SectionFromText("", parsed.Text, label)
			} else {
				svc, done, err := a.reports()
				if err != nil {
					return err
				}
				defer done()
				if view, err = svc.Section(cmd.Context(), participant, section); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				return writeJSON(out, view)
			}
			r, err := a.renderer(out)
			if err != nil {
				return err
			}
			return r.Section(out, view)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Narrative document ("+strings.Join(ingest.SupportedExtensions, ", ")+")")
	cmd.Flags().StringVarP(&participant, "participant", "p", "", "Participant id")
	cmd.Flags().StringVarP(&section, "section", "s", "", "Section name, alias or compact key")
	_ = cmd.MarkFlagRequired("section")
	return cmd
}

func newBlocksCmd(a *app) *cobra.Command {
	var (
		file        string
		participant string
	)
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Split an analysis narrative into display blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oneOf(file, participant); err != nil {
				return err
			}
			var blocks []narrative.AnalysisBlock
			if file != "" {
				parsed, err := ingest.ParseFile(file)
				if err != nil {
					return err
				}
				blocks = narrative.ParseNarrativeBlocks(parsed.Text)
			} else {
				svc, done, err := a.reports()
				if err != nil {
					return err
				}
				defer done()
				view, err := svc.Analysis(cmd.Context(), participant)
				if err != nil {
					return err
				}
				blocks = view.Blocks
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				if blocks == nil {
					blocks = []narrative.AnalysisBlock{}
				}
				return writeJSON(out, blocks)
			}
			r, err := a.renderer(out)
			if err != nil {
				return err
			}
			return r.Blocks(out, blocks)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Analysis document ("+strings.Join(ingest.SupportedExtensions, ", ")+")")
	cmd.Flags().StringVarP(&participant, "participant", "p", "", "Participant id")
	return cmd
}

func newOverviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview <participant>",
		Short: "Show every section and the analysis for a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := a.reports()
			if err != nil {
				return err
			}
			defer done()
			ov, err := svc.Overview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOut {
				return writeJSON(out, ov)
			}
			r, err := a.renderer(out)
			if err != nil {
				return err
			}
			return r.Overview(out, ov)
		},
	}
}

func oneOf(file, participant string) error {
	file, participant = strings.TrimSpace(file), strings.TrimSpace(participant)
	switch {
	case file == "" && participant == "":
		return errors.New("one of --file or --participant is required")
	case file != "" && participant != "":
		return errors.New("--file and --participant are mutually exclusive")
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
