package postgres

import "time"

// historyTableModel maps the match_history table. The whole match document
// lives in one JSONB column; the extracted columns exist only for ordering
// and lookup.
type historyTableModel struct {
	MatchID   string    `db:"match_id"`
	MatchDate time.Time `db:"match_date"`
	SavedAt   time.Time `db:"saved_at"`
	Document  []byte    `db:"document"`
}
