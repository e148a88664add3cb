package httpapi

import (
	"time"

	"github.com/vigontina/matchtrack/internal/domain/event"
	"github.com/vigontina/matchtrack/internal/domain/figc"
	"github.com/vigontina/matchtrack/internal/domain/history"
	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/scoring"
	"github.com/vigontina/matchtrack/internal/domain/share"
	"github.com/vigontina/matchtrack/internal/domain/timer"
)

// The match document keeps its own JSON shape (it is also the stored and the
// shared representation), so responses embed it as-is and wrap only derived
// values in DTOs.

type matchStateDTO struct {
	Match match.Match `json:"match"`
	Clock clockDTO    `json:"clock"`
}

type clockDTO struct {
	Running            bool   `json:"running"`
	AccumulatedSeconds int    `json:"accumulatedSeconds"`
	ElapsedSeconds     int    `json:"elapsedSeconds"`
	Display            string `json:"display"`
	CurrentMinute      int    `json:"currentMinute"`
}

func clockToDTO(clock timer.State, now time.Time) clockDTO {
	elapsed := clock.ElapsedSeconds(now)
	return clockDTO{
		Running:            clock.Running,
		AccumulatedSeconds: clock.AccumulatedSeconds,
		ElapsedSeconds:     elapsed,
		Display:            timer.FormatTime(elapsed),
		CurrentMinute:      clock.CurrentMinute(now),
	}
}

type playerLineDTO struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}

type timelineEntryDTO struct {
	Period string      `json:"period"`
	Event  event.Event `json:"event"`
}

type figcRowDTO struct {
	Period     string `json:"period"`
	HomeScore  int    `json:"homeScore"`
	AwayScore  int    `json:"awayScore"`
	HomePoints int    `json:"homePoints"`
	AwayPoints int    `json:"awayPoints"`
}

type matchStatsDTO struct {
	TotalVigontina  int                `json:"totalVigontina"`
	TotalOpponent   int                `json:"totalOpponent"`
	PointsVigontina int                `json:"pointsVigontina"`
	PointsOpponent  int                `json:"pointsOpponent"`
	Result          string             `json:"result"`
	Scorers         []playerLineDTO    `json:"scorers"`
	Assists         []playerLineDTO    `json:"assists"`
	OwnGoals        int                `json:"ownGoals"`
	PenaltiesScored int                `json:"penaltiesScored"`
	PenaltiesMissed int                `json:"penaltiesMissed"`
	Timeline        []timelineEntryDTO `json:"timeline"`
	FigcTable       []figcRowDTO       `json:"figcTable"`
}

func statsToDTO(m match.Match) matchStatsDTO {
	stats := scoring.Stats(m)

	dto := matchStatsDTO{
		TotalVigontina:  stats.TotalVigontina,
		TotalOpponent:   stats.TotalOpponent,
		PointsVigontina: stats.PointsVigontina,
		PointsOpponent:  stats.PointsOpponent,
		Result:          string(stats.Result),
		OwnGoals:        stats.OwnGoals,
		PenaltiesScored: stats.PenaltiesScored,
		PenaltiesMissed: stats.PenaltiesMissed,
		Scorers:         make([]playerLineDTO, 0, len(stats.Scorers)),
		Assists:         make([]playerLineDTO, 0, len(stats.Assists)),
		Timeline:        make([]timelineEntryDTO, 0, len(stats.Timeline)),
	}
	for _, line := range stats.Scorers {
		dto.Scorers = append(dto.Scorers, playerLineDTO(line))
	}
	for _, line := range stats.Assists {
		dto.Assists = append(dto.Assists, playerLineDTO(line))
	}
	for _, entry := range stats.Timeline {
		dto.Timeline = append(dto.Timeline, timelineEntryDTO{Period: entry.PeriodName, Event: entry.Event})
	}
	for _, row := range figc.Table(m) {
		dto.FigcTable = append(dto.FigcTable, figcRowDTO{
			Period:     row.PeriodName,
			HomeScore:  row.HomeScore,
			AwayScore:  row.AwayScore,
			HomePoints: row.HomePoints,
			AwayPoints: row.AwayPoints,
		})
	}
	return dto
}

type historySummaryDTO struct {
	MatchID        string    `json:"matchId"`
	Opponent       string    `json:"opponent"`
	Date           time.Time `json:"date"`
	Competition    string    `json:"competition"`
	IsHome         bool      `json:"isHome"`
	TotalVigontina int       `json:"totalVigontina"`
	TotalOpponent  int       `json:"totalOpponent"`
	Result         string    `json:"result"`
	SavedAt        time.Time `json:"savedAt"`
}

func historySummaryToDTO(rec history.Record) historySummaryDTO {
	return historySummaryDTO{
		MatchID:        rec.Match.ID,
		Opponent:       rec.Match.Opponent,
		Date:           rec.Match.Date,
		Competition:    rec.Match.Competition,
		IsHome:         rec.Match.IsHome,
		TotalVigontina: scoring.TotalGoals(rec.Match, event.SideVigontina),
		TotalOpponent:  scoring.TotalGoals(rec.Match, event.SideOpponent),
		Result:         string(scoring.MatchResult(rec.Match)),
		SavedAt:        rec.SavedAt,
	}
}

type shareSessionDTO struct {
	Code         string              `json:"code"`
	Match        match.Match         `json:"match"`
	Clock        timer.State         `json:"clock"`
	Participants []share.Participant `json:"participants,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func shareSessionToDTO(session share.Session) shareSessionDTO {
	return shareSessionDTO{
		Code:         session.Code,
		Match:        session.Match,
		Clock:        session.Clock,
		Participants: session.Participants,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}
}
