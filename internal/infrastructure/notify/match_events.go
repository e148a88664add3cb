package notify

import (
	"context"
	"time"

	"github.com/vigontina/matchtrack/internal/domain/event"
	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/scoring"
	"github.com/vigontina/matchtrack/internal/domain/timer"
)

type publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// MatchEvents translates match milestones into webhook messages. Publish
// errors are already logged by the transport, so they are dropped here.
type MatchEvents struct {
	pub publisher
	now func() time.Time
}

func NewMatchEvents(pub publisher) *MatchEvents {
	return &MatchEvents{pub: pub, now: time.Now}
}

type goalPayload struct {
	Period        string `json:"period"`
	EventType     string `json:"eventType"`
	Minute        int    `json:"minute"`
	Scorer        string `json:"scorer,omitempty"`
	TotalHome     int    `json:"totalVigontina"`
	TotalOpponent int    `json:"totalOpponent"`
}

func (e *MatchEvents) GoalScored(ctx context.Context, m match.Match, periodName string, ev event.Event) {
	_ = e.pub.Publish(ctx, Message{
		Type:    EventGoal,
		MatchID: m.ID,
		At:      e.now().UTC(),
		Payload: goalPayload{
			Period:        periodName,
			EventType:     string(ev.Kind),
			Minute:        ev.Minute,
			Scorer:        ev.PlayerName,
			TotalHome:     scoring.TotalGoals(m, event.SideVigontina),
			TotalOpponent: scoring.TotalGoals(m, event.SideOpponent),
		},
	})
}

type periodPayload struct {
	Period  string `json:"period"`
	Elapsed string `json:"elapsed,omitempty"`
}

func (e *MatchEvents) PeriodFinished(ctx context.Context, m match.Match, periodName string) {
	_ = e.pub.Publish(ctx, Message{
		Type:    EventPeriodFinished,
		MatchID: m.ID,
		At:      e.now().UTC(),
		Payload: periodPayload{Period: periodName},
	})
}

func (e *MatchEvents) PeriodElapsed(ctx context.Context, m match.Match, periodName string, elapsedSeconds int) {
	_ = e.pub.Publish(ctx, Message{
		Type:    EventPeriodElapsed,
		MatchID: m.ID,
		At:      e.now().UTC(),
		Payload: periodPayload{Period: periodName, Elapsed: timer.FormatTime(elapsedSeconds)},
	})
}

type savedPayload struct {
	Opponent      string `json:"opponent"`
	Result        string `json:"result"`
	PointsHome    int    `json:"pointsVigontina"`
	PointsAway    int    `json:"pointsOpponent"`
	TotalHome     int    `json:"totalVigontina"`
	TotalOpponent int    `json:"totalOpponent"`
}

func (e *MatchEvents) MatchSaved(ctx context.Context, m match.Match) {
	_ = e.pub.Publish(ctx, Message{
		Type:    EventMatchSaved,
		MatchID: m.ID,
		At:      e.now().UTC(),
		Payload: savedPayload{
			Opponent:      m.Opponent,
			Result:        string(scoring.MatchResult(m)),
			PointsHome:    scoring.Points(m, event.SideVigontina),
			PointsAway:    scoring.Points(m, event.SideOpponent),
			TotalHome:     scoring.TotalGoals(m, event.SideVigontina),
			TotalOpponent: scoring.TotalGoals(m, event.SideOpponent),
		},
	})
}
