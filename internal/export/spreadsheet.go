// Package export renders match data into downloadable documents: a season
// workbook and a printable match report.
package export

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"github.com/xuri/excelize/v2"

	"github.com/vigontina/matchtrack/internal/domain/event"
	"github.com/vigontina/matchtrack/internal/domain/history"
	"github.com/vigontina/matchtrack/internal/domain/scoring"
	"github.com/vigontina/matchtrack/internal/domain/timer"
)

const seasonSheet = "Stagione"

// Spreadsheet renders the season workbook: one summary sheet plus a detail
// sheet per archived match.
type Spreadsheet struct{}

func NewSpreadsheet() *Spreadsheet {
	return &Spreadsheet{}
}

type matchDetail struct {
	rec   history.Record
	stats scoring.MatchStats
}

// RenderSeason builds the workbook for the given records, assumed already
// ordered newest first. Per-match aggregation fans out across a worker pool;
// the workbook itself is written sequentially because excelize files are not
// goroutine safe.
func (s *Spreadsheet) RenderSeason(ctx context.Context, records []history.Record) ([]byte, error) {
	details := make([]matchDetail, len(records))
	p := pool.New().WithErrors().WithContext(ctx)
	for i, rec := range records {
		p.Go(func(context.Context) error {
			details[i] = matchDetail{rec: rec, stats: scoring.Stats(rec.Match)}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate season stats: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", seasonSheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, details); err != nil {
		return nil, err
	}

	for i, d := range details {
		if err := writeMatchSheet(f, i, d); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write season workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, details []matchDetail) error {
	headers := []string{"Data", "Avversario", "Competizione", "Casa", "Gol fatti", "Gol subiti", "Punti", "Punti avv.", "Esito"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("summary header cell: %w", err)
		}
		if err := f.SetCellValue(seasonSheet, cell, h); err != nil {
			return fmt.Errorf("summary header: %w", err)
		}
	}

	for row, d := range details {
		venue := "Trasferta"
		if d.rec.Match.IsHome {
			venue = "Casa"
		}
		values := []any{
			d.rec.Match.Date.Format("02/01/2006"),
			d.rec.Match.Opponent,
			d.rec.Match.Competition,
			venue,
			d.stats.TotalVigontina,
			d.stats.TotalOpponent,
			d.stats.PointsVigontina,
			d.stats.PointsOpponent,
			resultLabel(d.stats.Result),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("summary cell: %w", err)
			}
			if err := f.SetCellValue(seasonSheet, cell, v); err != nil {
				return fmt.Errorf("summary row %d: %w", row+2, err)
			}
		}
	}

	return f.SetColWidth(seasonSheet, "A", "I", 16)
}

func writeMatchSheet(f *excelize.File, index int, d matchDetail) error {
	// Sheet names cap at 31 chars and the opponent name may repeat, so the
	// index keeps them unique.
	name := fmt.Sprintf("%02d %s", index+1, d.rec.Match.Opponent)
	if len(name) > 31 {
		name = name[:31]
	}
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create match sheet %q: %w", name, err)
	}

	row := 1
	set := func(values ...any) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	writeErr := func() error {
		if err := set("Vigontina San Paolo vs " + d.rec.Match.Opponent); err != nil {
			return err
		}
		if err := set(d.rec.Match.Competition, d.rec.Match.Date.Format("02/01/2006")); err != nil {
			return err
		}
		if err := set(); err != nil {
			return err
		}

		if err := set("Periodo", "Vigontina", "Avversario"); err != nil {
			return err
		}
		for _, p := range d.rec.Match.Periods {
			if err := set(p.Name, p.Vigontina, p.Opponent); err != nil {
				return err
			}
		}
		if err := set("Punti", d.stats.PointsVigontina, d.stats.PointsOpponent); err != nil {
			return err
		}
		if err := set(); err != nil {
			return err
		}

		if err := set("Cronologia"); err != nil {
			return err
		}
		if err := set("Periodo", "Minuto", "Evento", "Giocatore", "Note"); err != nil {
			return err
		}
		for _, entry := range d.stats.Timeline {
			note := ""
			if entry.Event.Voided() {
				note = "ANNULLATO: " + entry.Event.DeletionReason
			}
			if err := set(
				entry.PeriodName,
				timer.FormatTime(entry.Event.Minute*60),
				eventLabel(entry.Event),
				timelinePlayer(entry.Event),
				note,
			); err != nil {
				return err
			}
		}
		if err := set(); err != nil {
			return err
		}

		if err := set("Marcatori"); err != nil {
			return err
		}
		for _, line := range d.stats.Scorers {
			if err := set(fmt.Sprintf("%d %s", line.Number, line.Name), line.Count); err != nil {
				return err
			}
		}
		if err := set("Assist"); err != nil {
			return err
		}
		for _, line := range d.stats.Assists {
			if err := set(fmt.Sprintf("%d %s", line.Number, line.Name), line.Count); err != nil {
				return err
			}
		}
		return nil
	}()
	if writeErr != nil {
		return fmt.Errorf("write match sheet %q: %w", name, writeErr)
	}

	return f.SetColWidth(name, "A", "E", 22)
}

func resultLabel(r scoring.Result) string {
	switch r {
	case scoring.ResultWin:
		return "Vittoria"
	case scoring.ResultLoss:
		return "Sconfitta"
	default:
		return "Pareggio"
	}
}

func timelinePlayer(ev event.Event) string {
	switch {
	case ev.Kind == event.KindSubstitution:
		return fmt.Sprintf("%s per %s", ev.PlayerInName, ev.PlayerOutName)
	case ev.PlayerName != "":
		return fmt.Sprintf("%d %s", ev.Player, ev.PlayerName)
	default:
		return ""
	}
}
