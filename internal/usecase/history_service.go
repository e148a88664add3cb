package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/vigontina/matchtrack/internal/domain/history"
	"github.com/vigontina/matchtrack/internal/platform/logging"
)

// HistoryService reads and prunes the match archive. Deletion is guarded by
// the shared admin secret; there are no user accounts.
type HistoryService struct {
	repo        history.Repository
	adminSecret string
	logger      *logging.Logger
}

func NewHistoryService(repo history.Repository, adminSecret string, logger *logging.Logger) *HistoryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HistoryService{repo: repo, adminSecret: adminSecret, logger: logger}
}

func (s *HistoryService) List(ctx context.Context) ([]history.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "HistoryService.List")
	defer span.End()

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list match history: %v", ErrDependencyUnavailable, err)
	}
	return records, nil
}

func (s *HistoryService) Get(ctx context.Context, matchID string) (history.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "HistoryService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return history.Record{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	rec, exists, err := s.repo.GetByID(ctx, matchID)
	if err != nil {
		return history.Record{}, fmt.Errorf("%w: get match history: %v", ErrDependencyUnavailable, err)
	}
	if !exists {
		return history.Record{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return rec, nil
}

// Delete removes one archived match after verifying the admin secret.
func (s *HistoryService) Delete(ctx context.Context, matchID, secret string) error {
	ctx, span := startUsecaseSpan(ctx, "HistoryService.Delete")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.adminSecret)) != 1 {
		return fmt.Errorf("%w: admin secret mismatch", ErrUnauthorized)
	}

	_, exists, err := s.repo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("%w: get match history before delete: %v", ErrDependencyUnavailable, err)
	}
	if !exists {
		return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	if err := s.repo.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("%w: delete match history: %v", ErrDependencyUnavailable, err)
	}

	s.logger.InfoContext(ctx, "archived match deleted", "match_id", matchID)
	return nil
}
