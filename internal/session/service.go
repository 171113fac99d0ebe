package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
)

// SessionUseCase is the explicit session lifecycle: Set at login, Touch on activity,
// Clear at logout. A slot idle for longer than the timeout is gone.
type SessionUseCase interface {
	Set(ctx context.Context, user domain.PublicUser) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Touch(ctx context.Context, id string) (*domain.Session, error)
	Clear(ctx context.Context, id string) error
}

type Service struct {
	store Store
	idle  time.Duration
	now   func() time.Time
}

func NewService(store Store, idle time.Duration) *Service {
	return &Service{store: store, idle: idle, now: time.Now}
}

func (s *Service) Set(ctx context.Context, user domain.PublicUser) (*domain.Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := domain.Session{
		ID:        id,
		Email:     user.Email,
		Role:      user.Role,
		Name:      user.Name,
		CreatedAt: now,
		ExpiresAt: now.Add(s.idle),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &sess, nil
}

// Get returns the live session or ErrUnauthenticated. An expired slot is cleared on read.
func (s *Service) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrUnauthenticated
	}

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, domain.ErrUnauthenticated
	}
	if sess.Expired(s.now()) {
		_ = s.store.Delete(ctx, id)
		return nil, fmt.Errorf("%w: session expired", domain.ErrUnauthenticated)
	}
	return sess, nil
}

// Touch restarts the inactivity window of a live session.
// A slot cleared while the touch was in flight is not brought back.
func (s *Service) Touch(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.ExpiresAt = s.now().Add(s.idle)
	ok, err := s.store.Refresh(ctx, *sess)
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}

func (s *Service) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.store.Delete(ctx, id)
}

var _ SessionUseCase = (*Service)(nil)
