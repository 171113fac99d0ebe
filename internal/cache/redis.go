package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/flymate/config"
	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the client shared by the cache, the session store and the redis storage driver.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(client *redis.Client, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

// GetFlights returns nil, nil on a cache miss.
func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// FlightsVersion reads the invalidation counter. Read it before loading the list you
// intend to cache and pass it to SetFlights.
func (c *RedisCache) FlightsVersion(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, flightsVersionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// SetFlights stores flights only while the counter still equals version,
// so a list loaded before an invalidation is never written after it.
func (c *RedisCache) SetFlights(ctx context.Context, version int64, flights []domain.Flight) error {
	if flights == nil {
		flights = []domain.Flight{}
	}
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, flightsVersionKey()).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, flightsKey(), payload, c.flightsTTL)
			return nil
		})
		return err
	}, flightsVersionKey())
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// InvalidateFlights bumps the counter and drops the list in one transaction.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, flightsVersionKey())
		pipe.Del(ctx, flightsKey())
		return nil
	})
	return err
}

func flightsKey() string {
	return "flymate:cache:flights"
}

func flightsVersionKey() string {
	return flightsKey() + ":version"
}
