package share

import "context"

// Repository stores active share sessions keyed by join code.
type Repository interface {
	// Create claims the session's code. The bool reports whether the code
	// was free; on false the caller should draw a new code and retry.
	Create(ctx context.Context, session Session) (bool, error)
	GetByCode(ctx context.Context, code string) (Session, bool, error)
	Update(ctx context.Context, session Session) error
	Delete(ctx context.Context, code string) error
}
