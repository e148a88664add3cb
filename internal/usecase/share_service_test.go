package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/vigontina/matchtrack/internal/domain/share"
	"github.com/vigontina/matchtrack/internal/domain/timer"
	"github.com/vigontina/matchtrack/internal/infrastructure/repository/memory"
	"github.com/vigontina/matchtrack/internal/platform/logging"
)

type broadcastRecorder struct {
	updated []string
	ended   []string
}

func (r *broadcastRecorder) SessionUpdated(session share.Session) {
	r.updated = append(r.updated, session.Code)
}

func (r *broadcastRecorder) SessionEnded(code string) {
	r.ended = append(r.ended, code)
}

var _ ShareBroadcaster = (*broadcastRecorder)(nil)

const testPassphrase = "mister-2026"

func newShareServiceForTest(t *testing.T, codes ...string) (*ShareService, *memory.MatchRepository, *memory.ShareRepository, *broadcastRecorder) {
	t.Helper()
	matchRepo := memory.NewMatchRepository()
	shareRepo := memory.NewShareRepository()
	if len(codes) == 0 {
		codes = []string{"123456"}
	}
	svc := NewShareService(
		shareRepo,
		matchRepo,
		&staticIDGenerator{matchID: "match-001", codes: codes},
		testPassphrase,
		logging.NewNop(),
	)
	recorder := &broadcastRecorder{}
	svc.SetBroadcaster(recorder)
	return svc, matchRepo, shareRepo, recorder
}

func seedLiveMatch(t *testing.T, matchRepo *memory.MatchRepository) string {
	t.Helper()
	matchSvc := NewMatchService(matchRepo, memory.NewHistoryRepository(), &staticIDGenerator{matchID: "match-001"}, nil, 0, logging.NewNop())
	m, err := matchSvc.Create(t.Context(), testCreateInput())
	if err != nil {
		t.Fatalf("seed match failed: %v", err)
	}
	return m.ID
}

func TestShareServiceStart(t *testing.T) {
	svc, matchRepo, _, _ := newShareServiceForTest(t)
	matchID := seedLiveMatch(t, matchRepo)
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.Start(t.Context(), matchID, "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong passphrase should be unauthorized, got %v", err)
	}
	if _, err := svc.Start(t.Context(), "missing", testPassphrase); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown match should be not found, got %v", err)
	}

	session, err := svc.Start(t.Context(), matchID, testPassphrase)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if session.Code != "123456" || session.Match.ID != matchID {
		t.Fatalf("session = %+v", session)
	}
	if !session.CreatedAt.Equal(now) || !session.UpdatedAt.Equal(now) {
		t.Fatalf("session timestamps = %v/%v, want %v", session.CreatedAt, session.UpdatedAt, now)
	}
}

func TestShareServiceStartRetriesOnCodeCollision(t *testing.T) {
	svc, matchRepo, shareRepo, _ := newShareServiceForTest(t, "111111", "222222")
	matchID := seedLiveMatch(t, matchRepo)

	if _, err := shareRepo.Create(t.Context(), share.Session{Code: "111111"}); err != nil {
		t.Fatalf("seed taken code failed: %v", err)
	}

	session, err := svc.Start(t.Context(), matchID, testPassphrase)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if session.Code != "222222" {
		t.Fatalf("code = %s, want the retry code 222222", session.Code)
	}
}

func TestShareServiceStartGivesUpWhenNoCodeIsFree(t *testing.T) {
	svc, matchRepo, shareRepo, _ := newShareServiceForTest(t, "111111")
	matchID := seedLiveMatch(t, matchRepo)

	if _, err := shareRepo.Create(t.Context(), share.Session{Code: "111111"}); err != nil {
		t.Fatalf("seed taken code failed: %v", err)
	}

	if _, err := svc.Start(t.Context(), matchID, testPassphrase); !errors.Is(err, ErrConflict) {
		t.Fatalf("exhausted retries should conflict, got %v", err)
	}
}

func TestShareServiceJoinRoles(t *testing.T) {
	svc, matchRepo, _, _ := newShareServiceForTest(t)
	matchID := seedLiveMatch(t, matchRepo)
	session, err := svc.Start(t.Context(), matchID, testPassphrase)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if _, err := svc.Join(t.Context(), JoinShareInput{Code: session.Code, Role: "referee"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown role should be invalid, got %v", err)
	}
	if _, err := svc.Join(t.Context(), JoinShareInput{Code: session.Code, Role: share.RoleCollaborator, Passphrase: "wrong"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("write role without passphrase should be unauthorized, got %v", err)
	}
	if _, err := svc.Join(t.Context(), JoinShareInput{Code: "999999", Role: share.RoleViewer}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown code should be not found, got %v", err)
	}
	if _, err := svc.Join(t.Context(), JoinShareInput{Code: "12", Role: share.RoleViewer}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("malformed code should be invalid, got %v", err)
	}

	joined, err := svc.Join(t.Context(), JoinShareInput{Code: session.Code, Role: share.RoleViewer, Name: "Tablet panchina"})
	if err != nil {
		t.Fatalf("viewer join failed: %v", err)
	}
	if joined.Match.ID != matchID {
		t.Fatalf("joined session = %+v", joined)
	}

	if _, err := svc.Join(t.Context(), JoinShareInput{Code: session.Code, Role: share.RoleOrganizer, Passphrase: testPassphrase}); err != nil {
		t.Fatalf("organizer join with passphrase failed: %v", err)
	}

	participants, err := svc.Participants(t.Context(), session.Code)
	if err != nil {
		t.Fatalf("participants failed: %v", err)
	}
	if len(participants) != 2 {
		t.Fatalf("participants = %+v, want the viewer and the organizer", participants)
	}
	if participants[0].Role != share.RoleViewer || participants[0].Name != "Tablet panchina" {
		t.Fatalf("first participant = %+v", participants[0])
	}
	if participants[1].Role != share.RoleOrganizer {
		t.Fatalf("second participant = %+v", participants[1])
	}
}

func TestShareServiceSnapshotDoesNotRegisterParticipants(t *testing.T) {
	svc, matchRepo, _, _ := newShareServiceForTest(t)
	matchID := seedLiveMatch(t, matchRepo)
	session, err := svc.Start(t.Context(), matchID, testPassphrase)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	snap, err := svc.Snapshot(t.Context(), session.Code)
	if err != nil || snap.Match.ID != matchID {
		t.Fatalf("snapshot = (%+v, %v)", snap, err)
	}

	participants, err := svc.Participants(t.Context(), session.Code)
	if err != nil {
		t.Fatalf("participants failed: %v", err)
	}
	if len(participants) != 0 {
		t.Fatalf("snapshot must not add participants, got %+v", participants)
	}
}

func TestShareServiceUpdateStateLastWriteWins(t *testing.T) {
	svc, matchRepo, _, recorder := newShareServiceForTest(t)
	matchID := seedLiveMatch(t, matchRepo)
	session, err := svc.Start(t.Context(), matchID, testPassphrase)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if _, err := svc.UpdateState(t.Context(), UpdateShareInput{
		Code: session.Code, Role: share.RoleViewer, Match: session.Match,
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("viewer writes should be unauthorized, got %v", err)
	}

	later := time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return later }

	next := session.Match.Clone()
	next.Periods[1].Completed = true
	updated, err := svc.UpdateState(t.Context(), UpdateShareInput{
		Code:  session.Code,
		Role:  share.RoleCollaborator,
		Match: next,
		Clock: timer.State{AccumulatedSeconds: 300},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.Match.Periods[1].Completed || updated.Clock.AccumulatedSeconds != 300 {
		t.Fatal("update must replace the whole document")
	}
	if !updated.UpdatedAt.Equal(later) {
		t.Fatalf("updated at = %v, want %v", updated.UpdatedAt, later)
	}
	if len(recorder.updated) != 1 || recorder.updated[0] != session.Code {
		t.Fatalf("broadcast = %v", recorder.updated)
	}
}

func TestShareServiceEnd(t *testing.T) {
	svc, matchRepo, shareRepo, recorder := newShareServiceForTest(t)
	matchID := seedLiveMatch(t, matchRepo)
	session, err := svc.Start(t.Context(), matchID, testPassphrase)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := svc.End(t.Context(), session.Code, share.RoleCollaborator); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("only the organizer may end, got %v", err)
	}

	if err := svc.End(t.Context(), session.Code, share.RoleOrganizer); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if _, ok, _ := shareRepo.GetByCode(t.Context(), session.Code); ok {
		t.Fatal("ended session should be gone")
	}
	if len(recorder.ended) != 1 || recorder.ended[0] != session.Code {
		t.Fatalf("end broadcast = %v", recorder.ended)
	}

	if err := svc.End(t.Context(), session.Code, share.RoleOrganizer); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ending twice should be not found, got %v", err)
	}
}
