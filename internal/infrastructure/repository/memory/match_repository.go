package memory

import (
	"context"
	"sync"

	"github.com/vigontina/matchtrack/internal/domain/match"
	"github.com/vigontina/matchtrack/internal/domain/timer"
)

type matchEntry struct {
	m     match.Match
	clock timer.State
}

// MatchRepository keeps live matches in process memory. Matches migrate to
// the history store when finished, so this map stays small.
type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]matchEntry
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[string]matchEntry)}
}

func (r *MatchRepository) Create(_ context.Context, m match.Match, clock timer.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[m.ID] = matchEntry{m: m.Clone(), clock: clock}
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, timer.State, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.items[id]
	if !ok {
		return match.Match{}, timer.State{}, false, nil
	}

	return entry.m.Clone(), entry.clock, true, nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match, clock timer.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[m.ID] = matchEntry{m: m.Clone(), clock: clock}
	return nil
}

func (r *MatchRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}
