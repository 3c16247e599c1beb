package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"personality_insights/internal/report"
	"personality_insights/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sections and analyses over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			src, store, err := a.source()
			if err != nil {
				return err
			}
			cfg := server.RouterConfig{
				Reports:        report.NewService(src, a.log),
				Logger:         a.log,
				AllowedOrigins: a.cfg.AllowedOrigins,
			}
			if store != nil {
				defer store.Close()
				cfg.Lister = store
			}
			if addr == "" {
				addr = a.cfg.ListenAddr
			}
			return server.New(addr, server.NewRouter(cfg), a.log).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
