package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/storage"
)

// DocStore keeps sessions in the document store under currentUser:<id>.
// Expired slots stay until the service reads and clears them.
type DocStore struct {
	store  storage.Store
	locker storage.Locker
}

func NewDocStore(store storage.Store, locker storage.Locker) *DocStore {
	return &DocStore{store: store, locker: locker}
}

func (d *DocStore) Save(ctx context.Context, s domain.Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	return d.withSlot(ctx, s.ID, func(key string) error {
		return d.store.Put(ctx, key, data)
	})
}

func (d *DocStore) Refresh(ctx context.Context, s domain.Session) (bool, error) {
	data, err := encode(s)
	if err != nil {
		return false, err
	}

	refreshed := false
	err = d.withSlot(ctx, s.ID, func(key string) error {
		if _, err := d.store.Get(ctx, key); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			return err
		}
		if err := d.store.Put(ctx, key, data); err != nil {
			return err
		}
		refreshed = true
		return nil
	})
	return refreshed, err
}

func (d *DocStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := d.store.Get(ctx, storage.SessionKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (d *DocStore) Delete(ctx context.Context, id string) error {
	return d.withSlot(ctx, id, func(key string) error {
		return d.store.Delete(ctx, key)
	})
}

func (d *DocStore) withSlot(ctx context.Context, id string, fn func(key string) error) error {
	key := storage.SessionKey(id)
	unlock, err := d.locker.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("session: lock: %w", err)
	}
	defer unlock()
	return fn(key)
}

func encode(s domain.Session) ([]byte, error) {
	if err := domain.Validate(s); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("session: failed to marshal: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*domain.Session, error) {
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: session: %v", domain.ErrCorruptRecord, err)
	}
	if err := domain.Validate(s); err != nil {
		return nil, fmt.Errorf("%w: session: %v", domain.ErrCorruptRecord, err)
	}
	return &s, nil
}

var _ Store = (*DocStore)(nil)
