// Package history holds finished matches saved for later review. Records are
// whole match documents; the live store forgets a match once it lands here.
package history

import (
	"context"
	"time"

	"github.com/vigontina/matchtrack/internal/domain/match"
)

// Record is one archived match.
type Record struct {
	Match   match.Match `json:"match"`
	SavedAt time.Time   `json:"savedAt"`
}

// Repository stores archived matches, listed newest first.
type Repository interface {
	Save(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, matchID string) (Record, bool, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, matchID string) error
}
