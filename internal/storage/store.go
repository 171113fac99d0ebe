package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// Store holds JSON documents by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Locker serialises read-modify-write cycles on a key.
// The returned unlock func must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

const (
	KeyUsers     = "users"
	KeyFlights   = "flights"
	KeyBookings  = "bookings"
	KeyCheckouts = "checkouts"
)

func SessionKey(id string) string {
	return "currentUser:" + id
}

func SearchParamsKey(email string) string {
	return "searchParams:" + email
}

// LockAll acquires keys in the given order and releases them in reverse.
// Callers must pass keys in a consistent order.
func LockAll(ctx context.Context, l Locker, keys ...string) (func(), error) {
	unlocks := make([]func(), 0, len(keys))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, key := range keys {
		unlock, err := l.Lock(ctx, key)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}
