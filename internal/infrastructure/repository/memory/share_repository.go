package memory

import (
	"context"
	"sync"

	"github.com/vigontina/matchtrack/internal/domain/share"
)

// ShareRepository keeps active share sessions in memory. Sessions are
// ephemeral by design: ending the match or restarting the process drops them.
type ShareRepository struct {
	mu    sync.RWMutex
	items map[string]share.Session
}

func NewShareRepository() *ShareRepository {
	return &ShareRepository{items: make(map[string]share.Session)}
}

func (r *ShareRepository) Create(_ context.Context, session share.Session) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[session.Code]; exists {
		return false, nil
	}
	r.items[session.Code] = cloneSession(session)
	return true, nil
}

func (r *ShareRepository) GetByCode(_ context.Context, code string) (share.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.items[code]
	if !ok {
		return share.Session{}, false, nil
	}

	return cloneSession(session), true, nil
}

func (r *ShareRepository) Update(_ context.Context, session share.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[session.Code] = cloneSession(session)
	return nil
}

func (r *ShareRepository) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, code)
	return nil
}

func cloneSession(session share.Session) share.Session {
	copied := session
	copied.Match = session.Match.Clone()
	copied.Participants = append([]share.Participant(nil), session.Participants...)
	return copied
}
