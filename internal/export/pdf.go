package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/vigontina/matchtrack/internal/domain/figc"
	"github.com/vigontina/matchtrack/internal/domain/history"
	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/scoring"
	"github.com/vigontina/matchtrack/internal/domain/timer"
)

// Report renders one match as a printable PDF: header, the federation period
// table, the full chronology with voided events struck through, and the
// scorer and assist leaderboards.
type Report struct{}

func NewReport() *Report {
	return &Report{}
}

func (r *Report) RenderMatchReport(_ context.Context, rec history.Record) ([]byte, error) {
	m := rec.Match
	stats := scoring.Stats(m)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := "Vigontina San Paolo vs " + m.Opponent
	if !m.IsHome {
		title = m.Opponent + " vs Vigontina San Paolo"
	}
	pdf.CellFormat(0, 9, tr(title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s - %s", m.Competition, m.Date.Format("02/01/2006"))), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Risultato: %s (%s)",
		scoreline(stats.TotalVigontina, stats.TotalOpponent, m.IsHome),
		resultLabel(stats.Result))), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	r.writePeriodTable(pdf, tr, m)
	r.writeChronology(pdf, tr, stats)
	r.writeLeaderboards(pdf, tr, stats)
	r.writeReportDetails(pdf, tr, m.Report)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write match report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Report) writePeriodTable(pdf *gofpdf.Fpdf, tr func(string) string, m match.Match) {
	rows := figc.Table(m)
	totalHome, totalAway, pointsHome, pointsAway := figc.Totals(rows)

	home, away := "Vigontina", m.Opponent
	if !m.IsHome {
		home, away = m.Opponent, "Vigontina"
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 7, tr("Periodo"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, tr(home), "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 7, tr(away), "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, tr("Punti"), "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(60, 7, tr(row.PeriodName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d", row.HomeScore), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d", row.AwayScore), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d - %d", row.HomePoints, row.AwayPoints), "1", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 7, tr("Totale"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("%d", totalHome), "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("%d", totalAway), "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, fmt.Sprintf("%d - %d", pointsHome, pointsAway), "1", 1, "C", false, 0, "")
	pdf.Ln(5)
}

func (r *Report) writeChronology(pdf *gofpdf.Fpdf, tr func(string) string, stats scoring.MatchStats) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Cronologia"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if len(stats.Timeline) == 0 {
		pdf.CellFormat(0, 6, tr("Nessun evento registrato"), "", 1, "L", false, 0, "")
		pdf.Ln(3)
		return
	}

	for _, entry := range stats.Timeline {
		line := fmt.Sprintf("%s  %s  %s", entry.PeriodName, timer.FormatTime(entry.Event.Minute*60), eventLabel(entry.Event))
		if player := timelinePlayer(entry.Event); player != "" {
			line += "  " + player
		}
		if entry.Event.AssistName != "" {
			line += fmt.Sprintf("  (assist: %s)", entry.Event.AssistName)
		}

		if entry.Event.Voided() {
			pdf.SetFont("Helvetica", "S", 10)
			pdf.SetTextColor(128, 128, 128)
			pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 5, tr("    motivo annullamento: "+entry.Event.DeletionReason), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(0, 0, 0)
			continue
		}
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (r *Report) writeReportDetails(pdf *gofpdf.Fpdf, tr func(string) string, details *match.ReportDetails) {
	if details == nil {
		return
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Referto"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	line := func(label, value string) {
		if value == "" {
			return
		}
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %s", label, value)), "", 1, "L", false, 0, "")
	}
	line("Categoria", details.Category)
	line("Arbitro", details.Referee)
	line("Dirigente casa", details.HomeManager)
	line("Dirigente ospiti", details.AwayManager)

	for _, item := range details.Checklist {
		mark := "no"
		if item.Checked {
			mark = "si"
		}
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("[%s] %s", mark, item.Label)), "", 1, "L", false, 0, "")
	}
	line("Note", details.Notes)
}

func (r *Report) writeLeaderboards(pdf *gofpdf.Fpdf, tr func(string) string, stats scoring.MatchStats) {
	writeBoard := func(title string, lines []scoring.PlayerLine) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		if len(lines) == 0 {
			pdf.CellFormat(0, 6, tr("-"), "", 1, "L", false, 0, "")
			return
		}
		for _, line := range lines {
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d %s: %d", line.Number, line.Name, line.Count)), "", 1, "L", false, 0, "")
		}
	}

	writeBoard("Marcatori", stats.Scorers)
	writeBoard("Assist", stats.Assists)

	if stats.PenaltiesScored > 0 || stats.PenaltiesMissed > 0 || stats.OwnGoals > 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Ln(2)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Rigori segnati: %d, sbagliati: %d, autogol: %d",
			stats.PenaltiesScored, stats.PenaltiesMissed, stats.OwnGoals)), "", 1, "L", false, 0, "")
	}
}
