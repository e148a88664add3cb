package postgres

import (
	"context"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/vigontina/matchtrack/internal/domain/history"
	"github.com/vigontina/matchtrack/internal/domain/match"
)

// HistoryRepository archives finished matches as JSONB documents.
type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Save(ctx context.Context, rec history.Record) error {
	document, err := sonic.Marshal(rec.Match)
	if err != nil {
		return crerr.Wrap(err, "marshal match document")
	}

	const query = `INSERT INTO match_history (match_id, match_date, saved_at, document)
VALUES ($1, $2, $3, $4)
ON CONFLICT (match_id)
DO UPDATE SET match_date = EXCLUDED.match_date, saved_at = EXCLUDED.saved_at, document = EXCLUDED.document`

	if _, err := r.db.ExecContext(ctx, query, rec.Match.ID, rec.Match.Date, rec.SavedAt, document); err != nil {
		return crerr.Wrap(err, "save match history")
	}
	return nil
}

func (r *HistoryRepository) GetByID(ctx context.Context, matchID string) (history.Record, bool, error) {
	const query = `SELECT match_id, match_date, saved_at, document FROM match_history WHERE match_id = $1`

	var row historyTableModel
	if err := r.db.GetContext(ctx, &row, query, matchID); err != nil {
		if isNotFound(err) {
			return history.Record{}, false, nil
		}
		return history.Record{}, false, crerr.Wrap(err, "get match history")
	}

	rec, err := recordFromRow(row)
	if err != nil {
		return history.Record{}, false, err
	}
	return rec, true, nil
}

func (r *HistoryRepository) List(ctx context.Context) ([]history.Record, error) {
	const query = `SELECT match_id, match_date, saved_at, document FROM match_history
ORDER BY match_date DESC, saved_at DESC`

	var rows []historyTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, crerr.Wrap(err, "list match history")
	}

	out := make([]history.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *HistoryRepository) Delete(ctx context.Context, matchID string) error {
	const query = `DELETE FROM match_history WHERE match_id = $1`

	if _, err := r.db.ExecContext(ctx, query, matchID); err != nil {
		return crerr.Wrap(err, "delete match history")
	}
	return nil
}

func recordFromRow(row historyTableModel) (history.Record, error) {
	var m match.Match
	if err := sonic.Unmarshal(row.Document, &m); err != nil {
		return history.Record{}, crerr.Wrapf(err, "unmarshal match document %s", row.MatchID)
	}
	// The document is authoritative; keyed columns only index it.
	m.ID = row.MatchID
	return history.Record{Match: m, SavedAt: row.SavedAt}, nil
}
