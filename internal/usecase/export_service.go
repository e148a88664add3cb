package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/vigontina/matchtrack/internal/domain/history"
	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/platform/logging"
	"github.com/vigontina/matchtrack/internal/platform/resilience"
)

// SeasonRenderer builds the season workbook from archived matches.
type SeasonRenderer interface {
	RenderSeason(ctx context.Context, records []history.Record) ([]byte, error)
}

// ReportRenderer builds the printable report for one match.
type ReportRenderer interface {
	RenderMatchReport(ctx context.Context, rec history.Record) ([]byte, error)
}

// ExportService produces downloadable documents. Renders are collapsed per
// key, so a burst of identical download requests costs one render.
type ExportService struct {
	historyRepo history.Repository
	matchRepo   match.Repository
	sheets      SeasonRenderer
	reports     ReportRenderer
	flight      resilience.SingleFlight
	logger      *logging.Logger
}

func NewExportService(
	historyRepo history.Repository,
	matchRepo match.Repository,
	sheets SeasonRenderer,
	reports ReportRenderer,
	logger *logging.Logger,
) *ExportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExportService{
		historyRepo: historyRepo,
		matchRepo:   matchRepo,
		sheets:      sheets,
		reports:     reports,
		logger:      logger,
	}
}

// SeasonSpreadsheet renders every archived match into one workbook.
func (s *ExportService) SeasonSpreadsheet(ctx context.Context) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "ExportService.SeasonSpreadsheet")
	defer span.End()

	out, err, shared := s.flight.Do("season", func() (any, error) {
		records, err := s.historyRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list matches for season export: %w", err)
		}
		data, err := s.sheets.RenderSeason(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("render season workbook: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "season export shared with concurrent request")
	}
	return out.([]byte), nil
}

// MatchReport renders one match. Archived matches take precedence; a live
// match can be printed mid-game.
func (s *ExportService) MatchReport(ctx context.Context, matchID string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "ExportService.MatchReport")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	out, err, _ := s.flight.Do("report:"+matchID, func() (any, error) {
		rec, err := s.findMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		data, err := s.reports.RenderMatchReport(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("render match report: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func (s *ExportService) findMatch(ctx context.Context, matchID string) (history.Record, error) {
	rec, exists, err := s.historyRepo.GetByID(ctx, matchID)
	if err != nil {
		return history.Record{}, fmt.Errorf("get archived match for report: %w", err)
	}
	if exists {
		return rec, nil
	}

	m, _, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return history.Record{}, fmt.Errorf("get live match for report: %w", err)
	}
	if !exists {
		return history.Record{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return history.Record{Match: m, SavedAt: m.CreatedAt}, nil
}
