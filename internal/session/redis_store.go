package session

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/storage"
	"github.com/redis/go-redis/v9"
)

// RedisStore lets redis expire idle slots on its own: every Save resets the key TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "flymate:"}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + storage.SessionKey(id)
}

func (r *RedisStore) Save(ctx context.Context, s domain.Session) error {
	data, ttl, err := r.payload(s)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return r.client.Del(ctx, r.key(s.ID)).Err()
	}
	return r.client.Set(ctx, r.key(s.ID), data, ttl).Err()
}

// Refresh uses SET XX, so a slot removed by a concurrent logout stays removed.
func (r *RedisStore) Refresh(ctx context.Context, s domain.Session) (bool, error) {
	data, ttl, err := r.payload(s)
	if err != nil {
		return false, err
	}
	if ttl <= 0 {
		return false, r.client.Del(ctx, r.key(s.ID)).Err()
	}

	err = r.client.SetArgs(ctx, r.key(s.ID), data, redis.SetArgs{Mode: "XX", TTL: ttl}).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisStore) payload(s domain.Session) ([]byte, time.Duration, error) {
	data, err := encode(s)
	if err != nil {
		return nil, 0, err
	}
	return data, time.Until(s.ExpiresAt), nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(val)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

var _ Store = (*RedisStore)(nil)
