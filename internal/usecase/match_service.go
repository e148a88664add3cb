package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vigontina/matchtrack/internal/domain/event"
	"github.com/vigontina/matchtrack/internal/domain/history"
	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/timer"
	"github.com/vigontina/matchtrack/internal/platform/id"
	"github.com/vigontina/matchtrack/internal/platform/logging"
)

type CreateMatchInput struct {
	Opponent         string
	Date             time.Time
	IsHome           bool
	Competition      string
	MatchDay         *int
	Coach            string
	AssistantReferee string
	TeamManager      string
	Captain          *match.Captain
	NotCalled        []int
	Roster           map[int]string
}

type RecordEventInput struct {
	Kind   event.Kind
	Minute *int
	Player int
	Assist *int
}

type SubstitutionInput struct {
	PlayerOut int
	PlayerIn  int
	Minute    *int
}

// MatchService owns the live match lifecycle: creation, event recording,
// clock control and the final move into history.
type MatchService struct {
	matchRepo    match.Repository
	historyRepo  history.Repository
	ids          id.Generator
	notifier     MatchNotifier
	periodLength time.Duration
	logger       *logging.Logger
	now          func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	historyRepo history.Repository,
	ids id.Generator,
	notifier MatchNotifier,
	periodLength time.Duration,
	logger *logging.Logger,
) *MatchService {
	if notifier == nil {
		notifier = NopMatchNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if periodLength <= 0 {
		periodLength = 20 * time.Minute
	}
	return &MatchService{
		matchRepo:    matchRepo,
		historyRepo:  historyRepo,
		ids:          ids,
		notifier:     notifier,
		periodLength: periodLength,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Create")
	defer span.End()

	input.Opponent = strings.TrimSpace(input.Opponent)
	input.Competition = strings.TrimSpace(input.Competition)
	if input.Opponent == "" {
		return match.Match{}, fmt.Errorf("%w: opponent is required", ErrInvalidInput)
	}
	if input.Date.IsZero() {
		return match.Match{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if input.Competition == "" {
		return match.Match{}, fmt.Errorf("%w: competition is required", ErrInvalidInput)
	}
	if input.Captain != nil {
		if _, ok := input.Roster[input.Captain.Number]; !ok {
			return match.Match{}, fmt.Errorf("%w: captain %d is not in the roster", ErrInvalidInput, input.Captain.Number)
		}
	}

	m, err := match.New(match.CreateInput{
		ID:               s.ids.NewMatchID(),
		Opponent:         input.Opponent,
		Date:             input.Date,
		IsHome:           input.IsHome,
		Competition:      input.Competition,
		MatchDay:         input.MatchDay,
		Coach:            strings.TrimSpace(input.Coach),
		AssistantReferee: strings.TrimSpace(input.AssistantReferee),
		TeamManager:      strings.TrimSpace(input.TeamManager),
		Captain:          input.Captain,
		NotCalled:        input.NotCalled,
		Roster:           input.Roster,
		CreatedAt:        s.now().UTC(),
	})
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := s.matchRepo.Create(ctx, m, timer.State{}); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.InfoContext(ctx, "match created",
		"match_id", m.ID, "opponent", m.Opponent, "competition", m.Competition, "periods", len(m.Periods))
	return m, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, timer.State, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Get")
	defer span.End()

	return s.load(ctx, matchID)
}

func (s *MatchService) SetLineup(ctx context.Context, matchID string, periodIdx int, players []int) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.SetLineup")
	defer span.End()

	return s.mutate(ctx, matchID, func(m *match.Match, _ timer.State) error {
		return m.SetLineup(periodIdx, players)
	})
}

func (s *MatchService) RecordEvent(ctx context.Context, matchID string, periodIdx int, input RecordEventInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.RecordEvent")
	defer span.End()

	var recorded event.Event
	m, err := s.mutate(ctx, matchID, func(m *match.Match, clock timer.State) error {
		ev := event.Event{
			Kind:   input.Kind,
			Minute: s.stampMinute(input.Minute, clock),
			Player: input.Player,
			Assist: input.Assist,
		}
		recorded = ev
		return m.RecordEvent(periodIdx, ev)
	})
	if err != nil {
		return match.Match{}, err
	}

	if side, delta := recorded.ScoreDelta(); side != event.SideNone && delta > 0 {
		if periodIdx >= 0 && periodIdx < len(m.Periods) {
			// Re-read the stored event so the notification carries the
			// snapshot names filled in during validation.
			p := m.Periods[periodIdx]
			s.notifier.GoalScored(ctx, m, p.Name, p.Goals[len(p.Goals)-1])
		}
	}
	return m, nil
}

func (s *MatchService) VoidEvent(ctx context.Context, matchID string, periodIdx, eventIdx int, reason string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.VoidEvent")
	defer span.End()

	return s.mutate(ctx, matchID, func(m *match.Match, _ timer.State) error {
		return m.VoidEvent(periodIdx, eventIdx, strings.TrimSpace(reason))
	})
}

func (s *MatchService) UndoLastScoringEvent(ctx context.Context, matchID string, player int) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.UndoLastScoringEvent")
	defer span.End()

	return s.mutate(ctx, matchID, func(m *match.Match, _ timer.State) error {
		return m.RemoveLastScoringEventFor(player)
	})
}

func (s *MatchService) Substitute(ctx context.Context, matchID string, periodIdx int, input SubstitutionInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Substitute")
	defer span.End()

	return s.mutate(ctx, matchID, func(m *match.Match, clock timer.State) error {
		return m.AddSubstitution(periodIdx, input.PlayerOut, input.PlayerIn, s.stampMinute(input.Minute, clock))
	})
}

func (s *MatchService) AdjustScore(ctx context.Context, matchID string, periodIdx int, side event.Side, delta int) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.AdjustScore")
	defer span.End()

	return s.mutate(ctx, matchID, func(m *match.Match, _ timer.State) error {
		return m.AdjustScore(periodIdx, side, delta)
	})
}

func (s *MatchService) FinishPeriod(ctx context.Context, matchID string, periodIdx int) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.FinishPeriod")
	defer span.End()

	m, err := s.mutate(ctx, matchID, func(m *match.Match, _ timer.State) error {
		return m.FinishPeriod(periodIdx)
	})
	if err != nil {
		return match.Match{}, err
	}

	s.notifier.PeriodFinished(ctx, m, m.Periods[periodIdx].Name)
	return m, nil
}

func (s *MatchService) SetReportDetails(ctx context.Context, matchID string, details match.ReportDetails) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.SetReportDetails")
	defer span.End()

	return s.mutate(ctx, matchID, func(m *match.Match, _ timer.State) error {
		m.SetReport(details)
		return nil
	})
}

func (s *MatchService) ReopenPeriod(ctx context.Context, matchID string, periodIdx int) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.ReopenPeriod")
	defer span.End()

	return s.mutate(ctx, matchID, func(m *match.Match, _ timer.State) error {
		return m.ReopenPeriod(periodIdx)
	})
}

func (s *MatchService) StartClock(ctx context.Context, matchID string) (timer.State, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.StartClock")
	defer span.End()

	return s.mutateClock(ctx, matchID, func(clock timer.State) timer.State {
		return clock.Start(s.now())
	})
}

// PauseClock banks the running segment. Crossing the regulation period
// length is reported here; the period itself stays open until finished
// explicitly.
func (s *MatchService) PauseClock(ctx context.Context, matchID string) (timer.State, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.PauseClock")
	defer span.End()

	m, clock, err := s.load(ctx, matchID)
	if err != nil {
		return timer.State{}, err
	}

	wasRunning := clock.Running
	clock = clock.Pause(s.now())
	if err := s.matchRepo.Update(ctx, m, clock); err != nil {
		return timer.State{}, fmt.Errorf("update match clock: %w", err)
	}

	elapsed := clock.ElapsedSeconds(s.now())
	if wasRunning && time.Duration(elapsed)*time.Second >= s.periodLength {
		s.notifier.PeriodElapsed(ctx, m, currentPeriodName(m), elapsed)
	}
	return clock, nil
}

func (s *MatchService) ResetClock(ctx context.Context, matchID string) (timer.State, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.ResetClock")
	defer span.End()

	return s.mutateClock(ctx, matchID, func(clock timer.State) timer.State {
		return clock.Reset()
	})
}

// SaveToHistory archives the match and removes it from the live store.
func (s *MatchService) SaveToHistory(ctx context.Context, matchID string) (history.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.SaveToHistory")
	defer span.End()

	m, _, err := s.load(ctx, matchID)
	if err != nil {
		return history.Record{}, err
	}

	rec := history.Record{Match: m, SavedAt: s.now().UTC()}
	if err := s.historyRepo.Save(ctx, rec); err != nil {
		return history.Record{}, fmt.Errorf("%w: save match to history: %v", ErrDependencyUnavailable, err)
	}
	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return history.Record{}, fmt.Errorf("remove live match after archive: %w", err)
	}

	s.logger.InfoContext(ctx, "match archived", "match_id", m.ID, "opponent", m.Opponent)
	s.notifier.MatchSaved(ctx, m)
	return rec, nil
}

func (s *MatchService) load(ctx context.Context, matchID string) (match.Match, timer.State, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, timer.State{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, clock, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, timer.State{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Match{}, timer.State{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return m, clock, nil
}

func (s *MatchService) mutate(ctx context.Context, matchID string, fn func(*match.Match, timer.State) error) (match.Match, error) {
	m, clock, err := s.load(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}

	if err := fn(&m, clock); err != nil {
		return match.Match{}, mapDomainErr(err)
	}

	if err := s.matchRepo.Update(ctx, m, clock); err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}
	return m, nil
}

func (s *MatchService) mutateClock(ctx context.Context, matchID string, fn func(timer.State) timer.State) (timer.State, error) {
	m, clock, err := s.load(ctx, matchID)
	if err != nil {
		return timer.State{}, err
	}

	clock = fn(clock)
	if err := s.matchRepo.Update(ctx, m, clock); err != nil {
		return timer.State{}, fmt.Errorf("update match clock: %w", err)
	}
	return clock, nil
}

func (s *MatchService) stampMinute(minute *int, clock timer.State) int {
	if minute != nil {
		return *minute
	}
	return clock.CurrentMinute(s.now())
}

// currentPeriodName is the first period not yet completed, falling back to
// the last one when the match is over.
func currentPeriodName(m match.Match) string {
	for _, p := range m.Periods {
		if !p.Completed {
			return p.Name
		}
	}
	if len(m.Periods) == 0 {
		return ""
	}
	return m.Periods[len(m.Periods)-1].Name
}

// mapDomainErr folds match-engine validation failures into the usecase
// sentinels the transport layer maps to status codes. The domain error stays
// in the message for the response detail.
func mapDomainErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, match.ErrUnknownPeriod), errors.Is(err, match.ErrEventNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
}
