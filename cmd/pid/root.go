package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"personality_insights/internal/config"
	"personality_insights/internal/db"
	"personality_insights/internal/logger"
	"personality_insights/internal/render"
	"personality_insights/internal/report"
	"personality_insights/internal/results"
)

type app struct {
	configPath string
	verbose    bool
	plain      bool
	local      bool
	jsonOut    bool

	cfg config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pid",
		Short: "Personality insights dashboard",
		Long: `pid extracts labelled sections (traits, performance predictions, summary)
from assessment justification narratives and renders heading-delimited
analyses as display blocks.

Narratives come from the assessment result service, or from the local
store with --local after they have been ingested.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file (PID_* env vars override it)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&a.plain, "plain", false, "Disable colour and markdown rendering")
	root.PersistentFlags().BoolVar(&a.local, "local", false, "Read narratives from the local store instead of the result service")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Print JSON instead of formatted text")

	root.AddCommand(
		newSectionsCmd(a),
		newExtractCmd(a),
		newBlocksCmd(a),
		newOverviewCmd(a),
		newIngestCmd(a),
		newBatchCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	log, err := logger.New(cfg.LogMode, a.verbose)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) openStore() (*db.Store, error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return db.NewStore(a.cfg.DBPath)
}

// source returns the narrative source selected by --local. The returned
// store is nil unless the local store was opened; callers close it.
func (a *app) source() (results.Source, *db.Store, error) {
	if a.local {
		st, err := a.openStore()
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	}
	return results.NewHTTPClient(a.cfg.ResultsURL, a.cfg.FetchTimeout, a.log), nil, nil
}

func (a *app) reports() (*report.Service, func(), error) {
	src, st, err := a.source()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if st != nil {
			_ = st.Close()
		}
	}
	return report.NewService(src, a.log), closeFn, nil
}

func (a *app) renderer(w io.Writer) (*render.Renderer, error) {
	return render.New(render.Options{
		Plain: a.plain || !isTerminal(w),
		Theme: a.cfg.Theme,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
