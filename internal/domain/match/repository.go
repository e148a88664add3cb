package match

import (
	"context"

	"github.com/vigontina/matchtrack/internal/domain/timer"
)

// Repository stores live matches together with their period clocks.
type Repository interface {
	Create(ctx context.Context, m Match, clock timer.State) error
	GetByID(ctx context.Context, id string) (Match, timer.State, bool, error)
	Update(ctx context.Context, m Match, clock timer.State) error
	Delete(ctx context.Context, id string) error
}
