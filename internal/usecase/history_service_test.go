package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vigontina/matchtrack/internal/domain/history"
	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/platform/logging"
)

type historyRepoMock struct {
	mock.Mock
}

func (m *historyRepoMock) Save(ctx context.Context, rec history.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *historyRepoMock) GetByID(ctx context.Context, matchID string) (history.Record, bool, error) {
	args := m.Called(ctx, matchID)
	return args.Get(0).(history.Record), args.Bool(1), args.Error(2)
}

func (m *historyRepoMock) List(ctx context.Context) ([]history.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]history.Record), args.Error(1)
}

func (m *historyRepoMock) Delete(ctx context.Context, matchID string) error {
	args := m.Called(ctx, matchID)
	return args.Error(0)
}

var _ history.Repository = (*historyRepoMock)(nil)

const testAdminSecret = "segreto"

func archivedRecord(id string) history.Record {
	return history.Record{
		Match:   match.Match{ID: id, Opponent: "Albignasego"},
		SavedAt: time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC),
	}
}

func TestHistoryServiceList(t *testing.T) {
	repo := &historyRepoMock{}
	svc := NewHistoryService(repo, testAdminSecret, logging.NewNop())

	want := []history.Record{archivedRecord("match-1"), archivedRecord("match-2")}
	repo.On("List", mock.Anything).Return(want, nil).Once()

	got, err := svc.List(t.Context())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 || got[0].Match.ID != "match-1" {
		t.Fatalf("list = %+v", got)
	}
	repo.AssertExpectations(t)
}

func TestHistoryServiceGet(t *testing.T) {
	repo := &historyRepoMock{}
	svc := NewHistoryService(repo, testAdminSecret, logging.NewNop())

	repo.On("GetByID", mock.Anything, "match-1").Return(archivedRecord("match-1"), true, nil).Once()
	repo.On("GetByID", mock.Anything, "missing").Return(history.Record{}, false, nil).Once()

	rec, err := svc.Get(t.Context(), "match-1")
	if err != nil || rec.Match.ID != "match-1" {
		t.Fatalf("get = (%+v, %v)", rec, err)
	}

	if _, err := svc.Get(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing match should be not found, got %v", err)
	}
	if _, err := svc.Get(t.Context(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank id should be invalid, got %v", err)
	}
	repo.AssertExpectations(t)
}

func TestHistoryServiceDeleteRequiresAdminSecret(t *testing.T) {
	repo := &historyRepoMock{}
	svc := NewHistoryService(repo, testAdminSecret, logging.NewNop())

	err := svc.Delete(t.Context(), "match-1", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong secret should be unauthorized, got %v", err)
	}
	// The repository must never be touched on an auth failure.
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestHistoryServiceReportsArchiveStoreDown(t *testing.T) {
	repo := &historyRepoMock{}
	svc := NewHistoryService(repo, testAdminSecret, logging.NewNop())

	down := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	repo.On("List", mock.Anything).Return(nil, down).Once()
	repo.On("GetByID", mock.Anything, "match-1").Return(history.Record{}, false, down).Twice()

	if _, err := svc.List(t.Context()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("list with the store down should be dependency unavailable, got %v", err)
	}
	if _, err := svc.Get(t.Context(), "match-1"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("get with the store down should be dependency unavailable, got %v", err)
	}
	if err := svc.Delete(t.Context(), "match-1", testAdminSecret); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("delete with the store down should be dependency unavailable, got %v", err)
	}
	repo.AssertExpectations(t)
}

func TestHistoryServiceDelete(t *testing.T) {
	repo := &historyRepoMock{}
	svc := NewHistoryService(repo, testAdminSecret, logging.NewNop())

	repo.On("GetByID", mock.Anything, "match-1").Return(archivedRecord("match-1"), true, nil).Once()
	repo.On("Delete", mock.Anything, "match-1").Return(nil).Once()
	repo.On("GetByID", mock.Anything, "missing").Return(history.Record{}, false, nil).Once()

	if err := svc.Delete(t.Context(), "match-1", testAdminSecret); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(t.Context(), "missing", testAdminSecret); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing match should be not found, got %v", err)
	}
	repo.AssertExpectations(t)
}
