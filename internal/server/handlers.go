package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"personality_insights/internal/db"
	"personality_insights/internal/narrative"
	"personality_insights/internal/report"
	"personality_insights/internal/results"
)

// ParticipantLister is implemented by sources that can enumerate participants.
type ParticipantLister interface {
	ListParticipants(ctx context.Context) ([]db.Participant, error)
}

type sectionInfo struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Aliases []string `json:"aliases,omitempty"`
	Meta    bool     `json:"meta,omitempty"`
}

type Handler struct {
	reports *report.Service
	lister  ParticipantLister
}

func NewHandler(reports *report.Service, lister ParticipantLister) *Handler {
	return &Handler{reports: reports, lister: lister}
}

func (h *Handler) Health(c *gin.Context) {
	RespondOK(c, gin.H{"status": "ok"})
}

func (h *Handler) Sections(c *gin.Context) {
	labels := narrative.Catalog()
	out := make([]sectionInfo, 0, len(labels))
	for _, l := range labels {
		out = append(out, sectionInfo{Name: l.Name, Kind: l.Kind.String(), Aliases: l.Aliases, Meta: l.Meta})
	}
	RespondOK(c, gin.H{"sections": out})
}

func (h *Handler) Participants(c *gin.Context) {
	people, err := h.lister.ListParticipants(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "store_unavailable", err)
		return
	}
	if people == nil {
		people = []db.Participant{}
	}
	RespondOK(c, gin.H{"participants": people})
}

func (h *Handler) Section(c *gin.Context) {
	id, err := results.NormalizeID(c.Param("id"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	view, err := h.reports.Section(c.Request.Context(), id, c.Param("section"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	RespondOK(c, view)
}

func (h *Handler) Analysis(c *gin.Context) {
	id, err := results.NormalizeID(c.Param("id"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	view, err := h.reports.Analysis(c.Request.Context(), id)
	if err != nil {
		respondFailure(c, err)
		return
	}
	RespondOK(c, view)
}

func (h *Handler) Overview(c *gin.Context) {
	id, err := results.NormalizeID(c.Param("id"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	ov, err := h.reports.Overview(c.Request.Context(), id)
	if err != nil {
		respondFailure(c, err)
		return
	}
	RespondOK(c, ov)
}
