// Package scoring holds the read-only aggregations over a match: goal
// totals, the per-period point rule, scorer statistics and the match result.
// Everything here recomputes from the event logs; nothing is stored.
package scoring

import (
	"github.com/vigontina/matchtrack/internal/domain/event"
	"github.com/vigontina/matchtrack/internal/domain/match"
)

// Result is the match outcome from Vigontina's perspective.
type Result string

const (
	ResultWin  Result = "win"
	ResultDraw Result = "draw"
	ResultLoss Result = "loss"
)

// TotalGoals sums one side's tallies across every period except the
// technical trial.
func TotalGoals(m match.Match, side event.Side) int {
	total := 0
	for _, p := range m.Periods {
		if p.IsTechnicalTrial() {
			continue
		}
		total += p.Score(side)
	}
	return total
}

// PeriodPoints applies the youth-league rule to one period: if at least one
// goal was scored by either side, each side whose tally is >= the other's
// earns a point, so a nonzero tie pays both. A 0-0 period pays nobody (it is
// treated as not conclusively played), and the technical trial never pays.
func PeriodPoints(p match.Period) (vigontina, opponent int) {
	if p.IsTechnicalTrial() {
		return 0, 0
	}
	if p.Vigontina == 0 && p.Opponent == 0 {
		return 0, 0
	}
	if p.Vigontina >= p.Opponent {
		vigontina = 1
	}
	if p.Opponent >= p.Vigontina {
		opponent = 1
	}
	return vigontina, opponent
}

// Points sums the per-period points for one side.
func Points(m match.Match, side event.Side) int {
	total := 0
	for _, p := range m.Periods {
		vig, opp := PeriodPoints(p)
		if side == event.SideOpponent {
			total += opp
		} else {
			total += vig
		}
	}
	return total
}

// MatchResult compares both sides' points.
func MatchResult(m match.Match) Result {
	vig := Points(m, event.SideVigontina)
	opp := Points(m, event.SideOpponent)
	switch {
	case vig > opp:
		return ResultWin
	case vig < opp:
		return ResultLoss
	default:
		return ResultDraw
	}
}

// PlayerLine is the derived goal/assist count for one roster player.
type PlayerLine struct {
	Number int
	Name   string
	Count  int
}

// TimelineEntry is one event tagged with the period it belongs to, for
// chronology views and export rendering. Voided events are included.
type TimelineEntry struct {
	PeriodName string
	Event      event.Event
}

// MatchStats is the flattened aggregate over every period's event log.
// Scorer and assist lines only count live goal and penalty-goal events, so
// they stay in agreement with TotalGoals and Points on the same match.
type MatchStats struct {
	TotalVigontina  int
	TotalOpponent   int
	PointsVigontina int
	PointsOpponent  int
	Result          Result
	Scorers         []PlayerLine
	Assists         []PlayerLine
	OwnGoals        int
	PenaltiesScored int
	PenaltiesMissed int
	Timeline        []TimelineEntry
}

// Stats folds the full match once.
func Stats(m match.Match) MatchStats {
	stats := MatchStats{
		TotalVigontina:  TotalGoals(m, event.SideVigontina),
		TotalOpponent:   TotalGoals(m, event.SideOpponent),
		PointsVigontina: Points(m, event.SideVigontina),
		PointsOpponent:  Points(m, event.SideOpponent),
		Result:          MatchResult(m),
	}

	scorerCounts := map[int]*PlayerLine{}
	assistCounts := map[int]*PlayerLine{}
	var scorerOrder, assistOrder []int

	for _, p := range m.Periods {
		for _, ev := range p.Goals {
			stats.Timeline = append(stats.Timeline, TimelineEntry{PeriodName: p.Name, Event: ev})
			if ev.Voided() {
				continue
			}
			switch ev.Kind {
			case event.KindGoal, event.KindPenaltyGoal, event.KindFreeKickGoal:
				line, ok := scorerCounts[ev.Player]
				if !ok {
					line = &PlayerLine{Number: ev.Player, Name: ev.PlayerName}
					scorerCounts[ev.Player] = line
					scorerOrder = append(scorerOrder, ev.Player)
				}
				line.Count++
				if ev.Assist != nil {
					assist, ok := assistCounts[*ev.Assist]
					if !ok {
						assist = &PlayerLine{Number: *ev.Assist, Name: ev.AssistName}
						assistCounts[*ev.Assist] = assist
						assistOrder = append(assistOrder, *ev.Assist)
					}
					assist.Count++
				}
				if ev.Kind == event.KindPenaltyGoal {
					stats.PenaltiesScored++
				}
			case event.KindOwnGoal, event.KindOpponentOwnGoal:
				stats.OwnGoals++
			case event.KindPenaltyMissed:
				stats.PenaltiesMissed++
			}
		}
	}

	for _, number := range scorerOrder {
		stats.Scorers = append(stats.Scorers, *scorerCounts[number])
	}
	for _, number := range assistOrder {
		stats.Assists = append(stats.Assists, *assistCounts[number])
	}
	return stats
}
