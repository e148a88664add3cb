package usecase

import (
	"context"

	"github.com/vigontina/matchtrack/internal/domain/event"
	"github.com/vigontina/matchtrack/internal/domain/match"
)

// MatchNotifier receives match milestones. Implementations must be best
// effort: services call these inline and never fail an operation over them.
type MatchNotifier interface {
	GoalScored(ctx context.Context, m match.Match, periodName string, ev event.Event)
	PeriodFinished(ctx context.Context, m match.Match, periodName string)
	PeriodElapsed(ctx context.Context, m match.Match, periodName string, elapsedSeconds int)
	MatchSaved(ctx context.Context, m match.Match)
}

// NopMatchNotifier is used when no webhook is configured.
type NopMatchNotifier struct{}

func (NopMatchNotifier) GoalScored(context.Context, match.Match, string, event.Event) {}
func (NopMatchNotifier) PeriodFinished(context.Context, match.Match, string)          {}
func (NopMatchNotifier) PeriodElapsed(context.Context, match.Match, string, int)      {}
func (NopMatchNotifier) MatchSaved(context.Context, match.Match)                      {}
