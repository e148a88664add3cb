package memory

import (
	"testing"
	"time"

	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/timer"
)

var _ match.Repository = (*MatchRepository)(nil)

func buildMatch(t *testing.T, id string, date time.Time) match.Match {
	t.Helper()
	m, err := match.New(match.CreateInput{
		ID:          id,
		Opponent:    "Albignasego",
		Date:        date,
		Competition: "Campionato",
		Roster:      map[int]string{9: "Punta"},
	})
	if err != nil {
		t.Fatalf("new match failed: %v", err)
	}
	return m
}

func TestMatchRepositoryRoundTrip(t *testing.T) {
	repo := NewMatchRepository()
	ctx := t.Context()
	m := buildMatch(t, "match-1", time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC))
	clock := timer.State{Running: true, StartedAt: time.Date(2026, 3, 14, 15, 5, 0, 0, time.UTC)}

	if err := repo.Create(ctx, m, clock); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, gotClock, ok, err := repo.GetByID(ctx, "match-1")
	if err != nil || !ok {
		t.Fatalf("get = (%t, %v), want found", ok, err)
	}
	if got.Opponent != "Albignasego" || !gotClock.Running {
		t.Fatalf("got %+v clock %+v", got, gotClock)
	}

	_, _, ok, err = repo.GetByID(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("missing id = (%t, %v), want not found without error", ok, err)
	}

	if err := repo.Delete(ctx, "match-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, _, ok, _ := repo.GetByID(ctx, "match-1"); ok {
		t.Fatal("deleted match should be gone")
	}
}

func TestMatchRepositoryReturnsClones(t *testing.T) {
	repo := NewMatchRepository()
	ctx := t.Context()
	m := buildMatch(t, "match-1", time.Now())

	if err := repo.Create(ctx, m, timer.State{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, _, _, err := repo.GetByID(ctx, "match-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	got.Roster[9] = "Modificato"
	got.Periods[0].Completed = true

	fresh, _, _, err := repo.GetByID(ctx, "match-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fresh.Roster[9] != "Punta" || fresh.Periods[0].Completed {
		t.Fatal("repository handed out shared state")
	}

	// Mutating the original after Create must not leak in either.
	m.Opponent = "Altro"
	fresh, _, _, _ = repo.GetByID(ctx, "match-1")
	if fresh.Opponent != "Albignasego" {
		t.Fatal("repository stored the caller's instance")
	}
}
