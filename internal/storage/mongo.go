package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func ConnectMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoStore(client, client.Database(database).Collection(collection)), nil
}

func NewMongoStore(client *mongo.Client, coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, coll: coll}
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc mongoDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(doc.Value), nil
}

func (s *MongoStore) Put(ctx context.Context, key string, value []byte) error {
	doc := mongoDoc{Key: key, Value: string(value), UpdatedAt: time.Now()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

type mongoLock struct {
	Key       string    `bson:"_id"`
	Token     string    `bson:"token"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoLocker holds a key by inserting its lock document; the unique _id makes the
// insert fail while another process holds it. Locks past their TTL may be taken over.
type MongoLocker struct {
	coll  *mongo.Collection
	ttl   time.Duration
	retry time.Duration
	now   func() time.Time
}

// NewMongoLocker keeps lock documents in a sibling "<collection>_locks" collection.
func NewMongoLocker(s *MongoStore, ttl time.Duration) *MongoLocker {
	var coll *mongo.Collection
	if s.coll != nil {
		coll = s.coll.Database().Collection(s.coll.Name() + "_locks")
	}
	return &MongoLocker{coll: coll, ttl: ttl, retry: 25 * time.Millisecond, now: time.Now}
}

func (l *MongoLocker) Lock(ctx context.Context, key string) (func(), error) {
	token, err := lockToken()
	if err != nil {
		return nil, err
	}

	for {
		now := l.now()
		_, err := l.coll.InsertOne(ctx, mongoLock{Key: key, Token: token, ExpiresAt: now.Add(l.ttl)})
		if err == nil {
			break
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if _, err := l.coll.DeleteOne(ctx, bson.M{"_id": key, "expiresAt": bson.M{"$lt": now}}); err != nil {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, _ = l.coll.DeleteOne(ctx, bson.M{"_id": key, "token": token})
	}, nil
}

var (
	_ Store  = (*MongoStore)(nil)
	_ Locker = (*MongoLocker)(nil)
)
