package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/storage"
)

// documents is one storage key holding a JSON array of records.
// Every record is validated against its schema on the way in and out.
type documents[T any] struct {
	store storage.Store
	key   string
}

// load returns the records and whether the key exists.
func (d documents[T]) load(ctx context.Context) ([]T, bool, error) {
	data, err := d.store.Get(ctx, d.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", d.key, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", domain.ErrCorruptRecord, d.key, err)
	}
	for i := range records {
		if err := domain.Validate(records[i]); err != nil {
			return nil, true, fmt.Errorf("%w: %s[%d]: %v", domain.ErrCorruptRecord, d.key, i, err)
		}
	}
	return records, true, nil
}

func (d documents[T]) save(ctx context.Context, records []T) error {
	for i := range records {
		if err := domain.Validate(records[i]); err != nil {
			return err
		}
	}
	if records == nil {
		records = []T{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	if err := d.store.Put(ctx, d.key, data); err != nil {
		return fmt.Errorf("write %s: %w", d.key, err)
	}
	return nil
}

// update runs a locked read-modify-write cycle on the key.
func (d documents[T]) update(ctx context.Context, locker storage.Locker, fn func([]T) ([]T, error)) error {
	unlock, err := locker.Lock(ctx, d.key)
	if err != nil {
		return fmt.Errorf("lock %s: %w", d.key, err)
	}
	defer unlock()

	records, _, err := d.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return d.save(ctx, next)
}
