package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flymate/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const lockTTL = 10 * time.Second

// Backend is a document store paired with the locker that fits its deployment model.
// Every driver but memory is safe to share between the app and the worker.
type Backend struct {
	Store  Store
	Locker Locker

	closers []func()
}

func (b *Backend) Close() error {
	err := b.Store.Close()
	for _, c := range b.closers {
		c()
	}
	return err
}

// Open selects the backend named by cfg.Storage.Driver.
// The redis driver reuses rdb and fails when it is nil.
func Open(ctx context.Context, cfg *config.Config, rdb *redis.Client) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return &Backend{Store: NewMemoryStore(), Locker: NewLocalLocker()}, nil

	case config.DriverFile:
		fs, err := OpenFileStore(cfg.Storage.FilePath)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: fs, Locker: NewFileLocker(cfg.Storage.FilePath)}, nil

	case config.DriverRedis:
		if rdb == nil {
			return nil, errors.New("storage: redis driver requires redis.addr")
		}
		return &Backend{Store: NewRedisStore(rdb), Locker: NewRedisLocker(rdb, lockTTL)}, nil

	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := Migrate(ctx, dsn); err != nil {
			return nil, err
		}
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Backend{
			Store:   NewPostgresStore(pool),
			Locker:  NewPostgresLocker(pool),
			closers: []func(){pool.Close},
		}, nil

	case config.DriverMongo:
		ms, err := ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: ms, Locker: NewMongoLocker(ms, lockTTL)}, nil
	}

	return nil, fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
}
