package repository

import (
	"context"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/storage"
)

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user domain.User) error
}

type DocUserRepository struct {
	users  documents[domain.User]
	locker storage.Locker
}

func NewUserRepository(store storage.Store, locker storage.Locker) UserRepository {
	return &DocUserRepository{
		users:  documents[domain.User]{store: store, key: storage.KeyUsers},
		locker: locker,
	}
}

func (r *DocUserRepository) List(ctx context.Context) ([]domain.User, error) {
	users, _, err := r.users.load(ctx)
	return users, err
}

// GetByEmail matches the email exactly, case included.
func (r *DocUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, _, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *DocUserRepository) Create(ctx context.Context, user domain.User) error {
	return r.users.update(ctx, r.locker, func(users []domain.User) ([]domain.User, error) {
		for _, u := range users {
			if u.Email == user.Email {
				return nil, domain.ErrDuplicateUser
			}
		}
		return append(users, user), nil
	})
}

var _ UserRepository = (*DocUserRepository)(nil)
