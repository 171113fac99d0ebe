package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/storage"
)

type CheckoutRepository interface {
	List(ctx context.Context) ([]domain.Checkout, error)
	Create(ctx context.Context, checkout domain.Checkout) error
	GetByToken(ctx context.Context, token string) (*domain.Checkout, error)
	Delete(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) ([]domain.Checkout, error)
}

type DocCheckoutRepository struct {
	checkouts documents[domain.Checkout]
	locker    storage.Locker
}

func NewCheckoutRepository(store storage.Store, locker storage.Locker) CheckoutRepository {
	return &DocCheckoutRepository{
		checkouts: documents[domain.Checkout]{store: store, key: storage.KeyCheckouts},
		locker:    locker,
	}
}

func (r *DocCheckoutRepository) List(ctx context.Context) ([]domain.Checkout, error) {
	checkouts, _, err := r.checkouts.load(ctx)
	return checkouts, err
}

func (r *DocCheckoutRepository) Create(ctx context.Context, checkout domain.Checkout) error {
	return r.checkouts.update(ctx, r.locker, func(checkouts []domain.Checkout) ([]domain.Checkout, error) {
		return append(checkouts, checkout), nil
	})
}

func (r *DocCheckoutRepository) GetByToken(ctx context.Context, token string) (*domain.Checkout, error) {
	checkouts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range checkouts {
		if checkouts[i].Token == token {
			return &checkouts[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *DocCheckoutRepository) Delete(ctx context.Context, token string) (bool, error) {
	removed := false
	err := r.checkouts.update(ctx, r.locker, func(checkouts []domain.Checkout) ([]domain.Checkout, error) {
		out := checkouts[:0]
		for _, c := range checkouts {
			if c.Token == token {
				removed = true
				continue
			}
			out = append(out, c)
		}
		return out, nil
	})
	return removed, err
}

func (r *DocCheckoutRepository) DeleteExpired(ctx context.Context, now time.Time) ([]domain.Checkout, error) {
	var expired []domain.Checkout
	err := r.checkouts.update(ctx, r.locker, func(checkouts []domain.Checkout) ([]domain.Checkout, error) {
		out := checkouts[:0]
		for _, c := range checkouts {
			if c.Expired(now) {
				expired = append(expired, c)
				continue
			}
			out = append(out, c)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

var _ CheckoutRepository = (*DocCheckoutRepository)(nil)
