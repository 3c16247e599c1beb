package offline

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"personality_insights/internal/db"
	"personality_insights/internal/narrative"
	"personality_insights/internal/report"
)

type failTransport struct{}

func (f failTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network disabled for offline test")
}

func TestOfflineMode(t *testing.T) {
	original := http.DefaultTransport
	http.DefaultTransport = failTransport{}
	t.Cleanup(func() { http.DefaultTransport = original })

	text := "1. Trait-by-Trait Justification\n- **Openness (70.0):** Curious learner.\n\n2. Job Performance Justification\nSteady delivery.\nGood teammate."
	if got := narrative.ExtractSection(text, narrative.Openness); got != "Curious learner." {
		t.Fatalf("expected extraction to work offline, got %q", got)
	}
	if blocks := narrative.ParseNarrativeBlocks("### Strengths\n- **Empathy:** Listens"); len(blocks) != 1 {
		t.Fatalf("expected block parsing to work offline, got %d blocks", len(blocks))
	}

	store, err := db.NewStore(filepath.Join(t.TempDir(), "insights.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.SaveNarrative(ctx, "p1", "", db.KindJustification, text); err != nil {
		t.Fatalf("save narrative: %v", err)
	}
	ov, err := report.NewService(store, nil).Overview(ctx, "p1")
	if err != nil {
		t.Fatalf("expected local overview to work offline: %v", err)
	}
	for _, s := range ov.Sections {
		if s.Section == narrative.JobPerformance.Name && s.Content != "Steady delivery.\nGood teammate." {
			t.Fatalf("unexpected job performance content %q", s.Content)
		}
	}
}
