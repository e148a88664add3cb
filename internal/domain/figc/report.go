// Package figc derives the federation report projection: the per-period
// point table re-expressed in home/away terms. The manually entered report
// metadata lives on the match document itself (match.ReportDetails).
package figc

import (
	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/scoring"
)

// TableRow is one non-technical period with scores and points mapped onto
// the physical home/away sides.
type TableRow struct {
	PeriodName string
	HomeScore  int
	AwayScore  int
	HomePoints int
	AwayPoints int
}

// Table recomputes the point rule per period and swaps the column mapping
// when Vigontina is the designated away side. The comparison itself is the
// same >= rule used for the internal point totals.
func Table(m match.Match) []TableRow {
	rows := make([]TableRow, 0, len(m.Periods))
	for _, p := range m.Periods {
		if p.IsTechnicalTrial() {
			continue
		}
		vigPts, oppPts := scoring.PeriodPoints(p)
		row := TableRow{PeriodName: p.Name}
		if m.IsHome {
			row.HomeScore, row.AwayScore = p.Vigontina, p.Opponent
			row.HomePoints, row.AwayPoints = vigPts, oppPts
		} else {
			row.HomeScore, row.AwayScore = p.Opponent, p.Vigontina
			row.HomePoints, row.AwayPoints = oppPts, vigPts
		}
		rows = append(rows, row)
	}
	return rows
}

// Totals sums a derived table into the final line: aggregate score and
// aggregate points, both in home/away terms.
func Totals(rows []TableRow) (homeScore, awayScore, homePoints, awayPoints int) {
	for _, row := range rows {
		homeScore += row.HomeScore
		awayScore += row.AwayScore
		homePoints += row.HomePoints
		awayPoints += row.AwayPoints
	}
	return homeScore, awayScore, homePoints, awayPoints
}
