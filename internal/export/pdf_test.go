package export

import (
	"strings"
	"testing"

	"github.com/vigontina/matchtrack/internal/domain/event"
	"github.com/vigontina/matchtrack/internal/domain/match"
)

func TestRenderMatchReport(t *testing.T) {
	rec := archivedFixture(t, "match-1", "Albignasego")

	data, err := NewReport().RenderMatchReport(t.Context(), rec)
	if err != nil {
		t.Fatalf("render report failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatal("output is not a pdf document")
	}
	if len(data) < 1000 {
		t.Fatalf("report is suspiciously small: %d bytes", len(data))
	}
}

func TestRenderMatchReportWithVoidedEvent(t *testing.T) {
	rec := archivedFixture(t, "match-1", "Albignasego")
	if err := rec.Match.VoidEvent(1, 0, "fuorigioco"); err != nil {
		t.Fatalf("void failed: %v", err)
	}

	data, err := NewReport().RenderMatchReport(t.Context(), rec)
	if err != nil {
		t.Fatalf("render report failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatal("output is not a pdf document")
	}
}

func TestRenderMatchReportWithReportDetails(t *testing.T) {
	rec := archivedFixture(t, "match-1", "Albignasego")
	rec.Match.SetReport(match.ReportDetails{
		Category:  "Pulcini",
		Referee:   "Sig. Rossi",
		Checklist: []match.ChecklistItem{{Label: "Distinte consegnate", Checked: true}},
		Notes:     "Nessuna osservazione",
	})

	data, err := NewReport().RenderMatchReport(t.Context(), rec)
	if err != nil {
		t.Fatalf("render report failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatal("output is not a pdf document")
	}
}

func TestRenderMatchReportEmptyChronology(t *testing.T) {
	rec := archivedFixture(t, "match-1", "Albignasego")
	for i := range rec.Match.Periods {
		rec.Match.Periods[i].Goals = nil
		rec.Match.Periods[i].Vigontina = 0
		rec.Match.Periods[i].Opponent = 0
	}

	data, err := NewReport().RenderMatchReport(t.Context(), rec)
	if err != nil {
		t.Fatalf("render report failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("report is empty")
	}
}

func TestEventLabelsCoverScoringKinds(t *testing.T) {
	kinds := []event.Kind{
		event.KindGoal, event.KindOpponentGoal, event.KindOwnGoal,
		event.KindPenaltyGoal, event.KindPenaltyMissed,
		event.KindFreeKickGoal, event.KindSubstitution, event.KindScoreAdjustment,
	}
	for _, k := range kinds {
		if eventLabel(event.Event{Kind: k}) == "" {
			t.Errorf("kind %s has no label", k)
		}
	}
}
