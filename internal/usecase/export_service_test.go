package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vigontina/matchtrack/internal/domain/history"
	"github.com/vigontina/matchtrack/internal/infrastructure/repository/memory"
	"github.com/vigontina/matchtrack/internal/platform/logging"
)

type seasonRendererStub struct {
	calls   int
	lastLen int
	err     error
}

func (s *seasonRendererStub) RenderSeason(_ context.Context, records []history.Record) ([]byte, error) {
	s.calls++
	s.lastLen = len(records)
	if s.err != nil {
		return nil, s.err
	}
	return []byte("xlsx"), nil
}

type reportRendererStub struct {
	lastID string
}

func (s *reportRendererStub) RenderMatchReport(_ context.Context, rec history.Record) ([]byte, error) {
	s.lastID = rec.Match.ID
	return []byte("pdf"), nil
}

var (
	_ SeasonRenderer = (*seasonRendererStub)(nil)
	_ ReportRenderer = (*reportRendererStub)(nil)
)

func TestExportServiceSeasonSpreadsheet(t *testing.T) {
	matchRepo := memory.NewMatchRepository()
	historyRepo := memory.NewHistoryRepository()
	sheets := &seasonRendererStub{}
	svc := NewExportService(historyRepo, matchRepo, sheets, &reportRendererStub{}, logging.NewNop())

	if err := historyRepo.Save(t.Context(), archivedRecord("match-1")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := historyRepo.Save(t.Context(), archivedRecord("match-2")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	data, err := svc.SeasonSpreadsheet(t.Context())
	if err != nil {
		t.Fatalf("season export failed: %v", err)
	}
	if string(data) != "xlsx" || sheets.lastLen != 2 {
		t.Fatalf("export = %q over %d records", data, sheets.lastLen)
	}
}

func TestExportServiceSeasonSpreadsheetRendererFailure(t *testing.T) {
	sheets := &seasonRendererStub{err: errors.New("render boom")}
	svc := NewExportService(memory.NewHistoryRepository(), memory.NewMatchRepository(), sheets, &reportRendererStub{}, logging.NewNop())

	if _, err := svc.SeasonSpreadsheet(t.Context()); err == nil {
		t.Fatal("renderer failure must surface")
	}
}

func TestExportServiceMatchReportPrefersArchive(t *testing.T) {
	matchRepo := memory.NewMatchRepository()
	historyRepo := memory.NewHistoryRepository()
	reports := &reportRendererStub{}
	svc := NewExportService(historyRepo, matchRepo, &seasonRendererStub{}, reports, logging.NewNop())

	if err := historyRepo.Save(t.Context(), archivedRecord("match-1")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	data, err := svc.MatchReport(t.Context(), "match-1")
	if err != nil || string(data) != "pdf" {
		t.Fatalf("report = (%q, %v)", data, err)
	}
	if reports.lastID != "match-1" {
		t.Fatalf("rendered %s, want match-1", reports.lastID)
	}
}

func TestExportServiceMatchReportFallsBackToLiveMatch(t *testing.T) {
	matchRepo := memory.NewMatchRepository()
	historyRepo := memory.NewHistoryRepository()
	reports := &reportRendererStub{}
	svc := NewExportService(historyRepo, matchRepo, &seasonRendererStub{}, reports, logging.NewNop())

	matchSvc := NewMatchService(matchRepo, historyRepo, &staticIDGenerator{matchID: "live-1"}, nil, 0, logging.NewNop())
	matchSvc.now = func() time.Time { return time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC) }
	if _, err := matchSvc.Create(t.Context(), testCreateInput()); err != nil {
		t.Fatalf("seed live match failed: %v", err)
	}

	data, err := svc.MatchReport(t.Context(), "live-1")
	if err != nil || string(data) != "pdf" {
		t.Fatalf("report = (%q, %v)", data, err)
	}
	if reports.lastID != "live-1" {
		t.Fatalf("rendered %s, want the live match", reports.lastID)
	}

	if _, err := svc.MatchReport(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown match should be not found, got %v", err)
	}
	if _, err := svc.MatchReport(t.Context(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank id should be invalid, got %v", err)
	}
}
