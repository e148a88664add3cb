package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vigontina/matchtrack/internal/domain/history"
)

// HistoryRepository keeps archived matches in memory. It mirrors the postgres
// store's contract so deployments without a database still get history for
// the lifetime of the process.
type HistoryRepository struct {
	mu    sync.RWMutex
	items map[string]history.Record
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{items: make(map[string]history.Record)}
}

func (r *HistoryRepository) Save(_ context.Context, rec history.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[rec.Match.ID] = cloneRecord(rec)
	return nil
}

func (r *HistoryRepository) GetByID(_ context.Context, matchID string) (history.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[matchID]
	if !ok {
		return history.Record{}, false, nil
	}

	return cloneRecord(rec), true, nil
}

// List returns records ordered by match date descending, save time breaking
// ties, matching the postgres ORDER BY.
func (r *HistoryRepository) List(_ context.Context) ([]history.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]history.Record, 0, len(r.items))
	for _, rec := range r.items {
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Match.Date.Equal(out[j].Match.Date) {
			return out[i].Match.Date.After(out[j].Match.Date)
		}
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

func (r *HistoryRepository) Delete(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, matchID)
	return nil
}

func cloneRecord(rec history.Record) history.Record {
	copied := rec
	copied.Match = rec.Match.Clone()
	return copied
}
