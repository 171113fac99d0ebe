package session

import (
	"context"

	"github.com/Domenick1991/flymate/internal/domain"
)

// Store persists session slots. Get returns nil, nil when the slot is absent.
// Refresh rewrites a slot only while it still exists, so a Delete is never undone.
type Store interface {
	Save(ctx context.Context, s domain.Session) error
	Refresh(ctx context.Context, s domain.Session) (bool, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
