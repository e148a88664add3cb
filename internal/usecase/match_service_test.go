package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vigontina/matchtrack/internal/domain/event"
	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/timer"
	"github.com/vigontina/matchtrack/internal/infrastructure/repository/memory"
	"github.com/vigontina/matchtrack/internal/platform/logging"
)

type staticIDGenerator struct {
	matchID string
	codes   []string
	calls   int
}

func (g *staticIDGenerator) NewMatchID() string { return g.matchID }

func (g *staticIDGenerator) NewShareCode() (string, error) {
	if len(g.codes) == 0 {
		return "000000", nil
	}
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return code, nil
}

type notifierRecorder struct {
	goals          []event.Event
	periodsDone    []string
	elapsedPeriods []string
	elapsedSeconds []int
	saved          []string
}

func (r *notifierRecorder) GoalScored(_ context.Context, _ match.Match, _ string, ev event.Event) {
	r.goals = append(r.goals, ev)
}

func (r *notifierRecorder) PeriodFinished(_ context.Context, _ match.Match, periodName string) {
	r.periodsDone = append(r.periodsDone, periodName)
}

func (r *notifierRecorder) PeriodElapsed(_ context.Context, _ match.Match, periodName string, elapsedSeconds int) {
	r.elapsedPeriods = append(r.elapsedPeriods, periodName)
	r.elapsedSeconds = append(r.elapsedSeconds, elapsedSeconds)
}

func (r *notifierRecorder) MatchSaved(_ context.Context, m match.Match) {
	r.saved = append(r.saved, m.ID)
}

var _ MatchNotifier = (*notifierRecorder)(nil)

func testCreateInput() CreateMatchInput {
	return CreateMatchInput{
		Opponent:    "Albignasego",
		Date:        time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC),
		IsHome:      true,
		Competition: "Campionato",
		Roster: map[int]string{
			7: "Ala", 9: "Punta", 10: "Trequartista",
			1: "Portiere", 2: "Terzino", 3: "Centrale", 4: "Braccetto",
			5: "Mediano", 6: "Mezzala", 8: "Regista",
		},
	}
}

func newMatchServiceForTest(t *testing.T) (*MatchService, *memory.MatchRepository, *memory.HistoryRepository, *notifierRecorder) {
	t.Helper()
	matchRepo := memory.NewMatchRepository()
	historyRepo := memory.NewHistoryRepository()
	recorder := &notifierRecorder{}
	svc := NewMatchService(
		matchRepo,
		historyRepo,
		&staticIDGenerator{matchID: "match-001"},
		recorder,
		20*time.Minute,
		logging.NewNop(),
	)
	return svc, matchRepo, historyRepo, recorder
}

func TestMatchServiceCreate(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest(t)
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if m.ID != "match-001" {
		t.Fatalf("id = %s, want match-001", m.ID)
	}
	if len(m.Periods) != 5 {
		t.Fatalf("periods = %d, want 5", len(m.Periods))
	}
	if !m.CreatedAt.Equal(now) {
		t.Fatalf("created at = %v, want %v", m.CreatedAt, now)
	}

	got, clock, err := svc.Get(t.Context(), "match-001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Opponent != "Albignasego" || clock.Running {
		t.Fatalf("stored match = %+v clock = %+v", got, clock)
	}
}

func TestMatchServiceCreateValidation(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest(t)

	input := testCreateInput()
	input.Opponent = "  "
	if _, err := svc.Create(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank opponent should be invalid, got %v", err)
	}

	input = testCreateInput()
	input.Captain = &match.Captain{Number: 99, Name: "Fantasma"}
	if _, err := svc.Create(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("captain outside the roster should be invalid, got %v", err)
	}
}

func TestMatchServiceRecordEventStampsMinuteFromClock(t *testing.T) {
	svc, matchRepo, _, recorder := newMatchServiceForTest(t)
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	running := timer.State{Running: true, StartedAt: now.Add(-5 * time.Minute)}
	if err := matchRepo.Update(t.Context(), m, running); err != nil {
		t.Fatalf("seed clock failed: %v", err)
	}

	assist := 10
	updated, err := svc.RecordEvent(t.Context(), m.ID, 1, RecordEventInput{
		Kind:   event.KindGoal,
		Player: 9,
		Assist: &assist,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	ev := updated.Periods[1].Goals[0]
	if ev.Minute != 5 {
		t.Fatalf("stamped minute = %d, want 5 from the running clock", ev.Minute)
	}
	if ev.PlayerName != "Punta" || ev.AssistName != "Trequartista" {
		t.Fatalf("snapshots = %q/%q", ev.PlayerName, ev.AssistName)
	}

	if len(recorder.goals) != 1 || recorder.goals[0].PlayerName != "Punta" {
		t.Fatalf("goal notification = %+v, want the stored event with snapshots", recorder.goals)
	}
}

func TestMatchServiceRecordEventExplicitMinuteAndNoGoalNotification(t *testing.T) {
	svc, _, _, recorder := newMatchServiceForTest(t)

	m, err := svc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	minute := 12
	updated, err := svc.RecordEvent(t.Context(), m.ID, 1, RecordEventInput{
		Kind:   event.KindMissedShot,
		Player: 7,
		Minute: &minute,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if updated.Periods[1].Goals[0].Minute != 12 {
		t.Fatalf("minute = %d, want the explicit 12", updated.Periods[1].Goals[0].Minute)
	}
	if len(recorder.goals) != 0 {
		t.Fatal("non-scoring events must not notify")
	}
}

func TestMatchServiceVoidEventErrorMapping(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest(t)

	m, err := svc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.RecordEvent(t.Context(), m.ID, 1, RecordEventInput{Kind: event.KindGoal, Player: 9}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if _, err := svc.VoidEvent(t.Context(), m.ID, 1, 0, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("reasonless goal void should map to invalid input, got %v", err)
	}
	if _, err := svc.VoidEvent(t.Context(), m.ID, 9, 0, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown period should map to not found, got %v", err)
	}
	if _, err := svc.VoidEvent(t.Context(), "missing", 1, 0, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown match should be not found, got %v", err)
	}

	updated, err := svc.VoidEvent(t.Context(), m.ID, 1, 0, "fuorigioco")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if updated.Periods[1].Vigontina != 0 || !updated.Periods[1].Goals[0].Voided() {
		t.Fatal("void should reverse the tally and keep the record")
	}
}

func TestMatchServiceUndoLastScoringEvent(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest(t)

	m, err := svc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.RecordEvent(t.Context(), m.ID, 1, RecordEventInput{Kind: event.KindGoal, Player: 9}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	updated, err := svc.UndoLastScoringEvent(t.Context(), m.ID, 9)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if len(updated.Periods[1].Goals) != 0 || updated.Periods[1].Vigontina != 0 {
		t.Fatal("undo should hard-delete the goal and roll back the tally")
	}

	if _, err := svc.UndoLastScoringEvent(t.Context(), m.ID, 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("undo without goals should be not found, got %v", err)
	}
}

func TestMatchServiceFinishPeriodNotifies(t *testing.T) {
	svc, _, _, recorder := newMatchServiceForTest(t)

	m, err := svc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.FinishPeriod(t.Context(), m.ID, 1)
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if !updated.Periods[1].Completed {
		t.Fatal("period should be completed")
	}
	if len(recorder.periodsDone) != 1 || recorder.periodsDone[0] != match.PeriodFirst {
		t.Fatalf("finish notification = %v", recorder.periodsDone)
	}
}

func TestMatchServicePauseClockNotifiesWhenRegulationElapsed(t *testing.T) {
	svc, matchRepo, _, recorder := newMatchServiceForTest(t)
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.periodLength = 20 * time.Minute

	m, err := svc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// The whole regulation length has been played.
	running := timer.State{Running: true, StartedAt: now.Add(-21 * time.Minute)}
	if err := matchRepo.Update(t.Context(), m, running); err != nil {
		t.Fatalf("seed clock failed: %v", err)
	}

	clock, err := svc.PauseClock(t.Context(), m.ID)
	if err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if clock.Running || clock.AccumulatedSeconds != 21*60 {
		t.Fatalf("paused clock = %+v", clock)
	}
	if len(recorder.elapsedPeriods) != 1 || recorder.elapsedPeriods[0] != match.PeriodTechnicalTrial {
		t.Fatalf("elapsed notification = %v, want the current period", recorder.elapsedPeriods)
	}
	if recorder.elapsedSeconds[0] != 21*60 {
		t.Fatalf("elapsed seconds = %d, want %d", recorder.elapsedSeconds[0], 21*60)
	}

	// Pausing an already paused clock must not re-notify.
	if _, err := svc.PauseClock(t.Context(), m.ID); err != nil {
		t.Fatalf("second pause failed: %v", err)
	}
	if len(recorder.elapsedPeriods) != 1 {
		t.Fatal("paused clock should not notify again")
	}
}

func TestMatchServiceClockStartPauseReset(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest(t)
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	clock, err := svc.StartClock(t.Context(), m.ID)
	if err != nil || !clock.Running {
		t.Fatalf("start clock = (%+v, %v)", clock, err)
	}

	now = now.Add(3 * time.Minute)
	clock, err = svc.PauseClock(t.Context(), m.ID)
	if err != nil || clock.Running || clock.AccumulatedSeconds != 180 {
		t.Fatalf("pause clock = (%+v, %v), want 180 banked seconds", clock, err)
	}

	clock, err = svc.ResetClock(t.Context(), m.ID)
	if err != nil || clock.AccumulatedSeconds != 0 || clock.Running {
		t.Fatalf("reset clock = (%+v, %v)", clock, err)
	}
}

func TestMatchServiceSetReportDetails(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest(t)

	m, err := svc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.SetReportDetails(t.Context(), m.ID, match.ReportDetails{
		Category: "Pulcini",
		Referee:  "Sig. Rossi",
	})
	if err != nil {
		t.Fatalf("set report failed: %v", err)
	}
	if updated.Report == nil || updated.Report.Referee != "Sig. Rossi" {
		t.Fatalf("report = %+v", updated.Report)
	}

	got, _, err := svc.Get(t.Context(), m.ID)
	if err != nil || got.Report == nil || got.Report.Category != "Pulcini" {
		t.Fatalf("stored report = (%+v, %v)", got.Report, err)
	}

	if _, err := svc.SetReportDetails(t.Context(), "missing", match.ReportDetails{Category: "Pulcini"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown match should be not found, got %v", err)
	}
}

func TestMatchServiceSaveToHistoryArchiveStoreDown(t *testing.T) {
	matchRepo := memory.NewMatchRepository()
	archive := &historyRepoMock{}
	svc := NewMatchService(matchRepo, archive, &staticIDGenerator{matchID: "match-001"}, nil, 0, logging.NewNop())

	m, err := svc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	archive.On("Save", mock.Anything, mock.Anything).
		Return(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")).Once()

	if _, err := svc.SaveToHistory(t.Context(), m.ID); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("save with the archive down should be dependency unavailable, got %v", err)
	}
	// The live match must survive a failed archive write.
	if _, _, ok, _ := matchRepo.GetByID(t.Context(), m.ID); !ok {
		t.Fatal("live match must stay when the archive write fails")
	}
	archive.AssertExpectations(t)
}

func TestMatchServiceSaveToHistory(t *testing.T) {
	svc, matchRepo, historyRepo, recorder := newMatchServiceForTest(t)
	now := time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	rec, err := svc.SaveToHistory(t.Context(), m.ID)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if rec.Match.ID != m.ID || !rec.SavedAt.Equal(now) {
		t.Fatalf("record = %+v", rec)
	}

	if _, _, ok, _ := matchRepo.GetByID(t.Context(), m.ID); ok {
		t.Fatal("archived match must leave the live store")
	}
	if _, ok, _ := historyRepo.GetByID(t.Context(), m.ID); !ok {
		t.Fatal("archived match must land in history")
	}
	if len(recorder.saved) != 1 || recorder.saved[0] != m.ID {
		t.Fatalf("save notification = %v", recorder.saved)
	}

	if _, err := svc.SaveToHistory(t.Context(), m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second save should be not found, got %v", err)
	}
}
