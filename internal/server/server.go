// Package server exposes participant sections and analyses over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"personality_insights/internal/logger"
	"personality_insights/internal/report"
)

const shutdownGrace = 5 * time.Second

type RouterConfig struct {
	Reports        *report.Service
	Logger         *logger.Logger
	AllowedOrigins []string

	// Lister is optional; without it /api/participants is not mounted.
	Lister ParticipantLister
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Logger))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowedOrigins,
			AllowMethods:  []string{"GET", "OPTIONS"},
			AllowHeaders:  []string{"Content-Type", RequestIDHeader},
			ExposeHeaders: []string{RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	h := NewHandler(cfg.Reports, cfg.Lister)
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.GET("/sections", h.Sections)
		if cfg.Lister != nil {
			api.GET("/participants", h.Participants)
		}
		api.GET("/participants/:id/sections/:section", h.Section)
		api.GET("/participants/:id/analysis", h.Analysis)
		api.GET("/participants/:id/overview", h.Overview)
	}
	return r
}

type Server struct {
	http *http.Server
	log  *logger.Logger
}

func New(addr string, handler http.Handler, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          zap.NewStdLog(log.Zap()),
		},
		log: log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
