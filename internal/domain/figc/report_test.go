package figc

import (
	"testing"

	"github.com/vigontina/matchtrack/internal/domain/match"
)

func tableFixture(isHome bool) match.Match {
	return match.Match{
		IsHome: isHome,
		Periods: []match.Period{
			{Name: match.PeriodTechnicalTrial, Vigontina: 3},
			{Name: match.PeriodFirst, Vigontina: 2, Opponent: 1},
			{Name: match.PeriodSecond, Vigontina: 1, Opponent: 1},
			{Name: match.PeriodThird},
			{Name: match.PeriodFourth, Opponent: 2},
		},
	}
}

func TestTableHomeMapping(t *testing.T) {
	rows := Table(tableFixture(true))

	if len(rows) != 4 {
		t.Fatalf("expected 4 rows without the technical trial, got %d", len(rows))
	}
	first := rows[0]
	if first.HomeScore != 2 || first.AwayScore != 1 || first.HomePoints != 1 || first.AwayPoints != 0 {
		t.Fatalf("home first period row = %+v", first)
	}

	homeScore, awayScore, homePts, awayPts := Totals(rows)
	if homeScore != 3 || awayScore != 4 {
		t.Fatalf("score totals = %d/%d, want 3/4", homeScore, awayScore)
	}
	if homePts != 2 || awayPts != 2 {
		t.Fatalf("point totals = %d/%d, want 2/2", homePts, awayPts)
	}
}

func TestTableAwayMappingSwapsColumns(t *testing.T) {
	rows := Table(tableFixture(false))

	first := rows[0]
	if first.HomeScore != 1 || first.AwayScore != 2 || first.HomePoints != 0 || first.AwayPoints != 1 {
		t.Fatalf("away first period row = %+v", first)
	}

	homeScore, awayScore, homePts, awayPts := Totals(rows)
	if homeScore != 4 || awayScore != 3 {
		t.Fatalf("score totals = %d/%d, want 4/3", homeScore, awayScore)
	}
	if homePts != 2 || awayPts != 2 {
		t.Fatalf("point totals = %d/%d, want 2/2", homePts, awayPts)
	}
}
