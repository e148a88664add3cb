package memory

import (
	"testing"
	"time"

	"github.com/vigontina/matchtrack/internal/domain/share"
)

var _ share.Repository = (*ShareRepository)(nil)

func TestShareRepositoryCreateReportsCollision(t *testing.T) {
	repo := NewShareRepository()
	ctx := t.Context()
	session := share.Session{
		Code:      "123456",
		Match:     buildMatch(t, "match-1", time.Now()),
		CreatedAt: time.Now(),
	}

	created, err := repo.Create(ctx, session)
	if err != nil || !created {
		t.Fatalf("create = (%t, %v), want fresh", created, err)
	}

	created, err = repo.Create(ctx, session)
	if err != nil || created {
		t.Fatalf("create on taken code = (%t, %v), want collision without error", created, err)
	}
}

func TestShareRepositoryLifecycle(t *testing.T) {
	repo := NewShareRepository()
	ctx := t.Context()
	session := share.Session{Code: "654321", Match: buildMatch(t, "match-1", time.Now())}

	if _, err := repo.Create(ctx, session); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, ok, err := repo.GetByCode(ctx, "654321")
	if err != nil || !ok {
		t.Fatalf("get = (%t, %v)", ok, err)
	}
	got.Match.Opponent = "Modificato"
	if fresh, _, _ := repo.GetByCode(ctx, "654321"); fresh.Match.Opponent != "Albignasego" {
		t.Fatal("repository handed out shared state")
	}

	session.UpdatedAt = time.Now()
	if err := repo.Update(ctx, session); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if err := repo.Delete(ctx, "654321"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := repo.GetByCode(ctx, "654321"); ok {
		t.Fatal("deleted session should be gone")
	}
}
