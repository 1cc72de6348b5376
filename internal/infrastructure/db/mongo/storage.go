package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ulbi/ukm-portal/internal/core/ports"
)

const storageCollection = "client_storage"

type clientDocument struct {
	ID        string            `bson:"_id"`
	Values    map[string]string `bson:"values"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// Storage keeps one document per browser client. Writes touch every key of a
// batch in a single update, so a batch lands atomically.
type Storage struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewStorage(db *mongo.Database) *Storage {
	return &Storage{coll: db.Collection(storageCollection), now: time.Now}
}

// EnsureIndexes adds the index used to expire abandoned clients. A
// non-positive ttl skips it.
func (s *Storage) EnsureIndexes(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl / time.Second)),
	})
	if err != nil {
		return fmt.Errorf("create storage ttl index: %w", err)
	}
	return nil
}

func (s *Storage) ForClient(clientID string) ports.Storage {
	return &clientStorage{Storage: s, id: clientID}
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

type clientStorage struct {
	*Storage
	id string
}

func (c *clientStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var doc clientDocument
	err := c.coll.FindOne(ctx, bson.M{"_id": c.id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find client storage: %w", err)
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

func (c *clientStorage) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	set := bson.M{"updated_at": c.now().UTC()}
	for k, v := range values {
		set["values."+k] = v
	}
	_, err := c.coll.UpdateOne(ctx,
		bson.M{"_id": c.id},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("update client storage: %w", err)
	}
	return nil
}

func (c *clientStorage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	unset := bson.M{}
	for _, k := range keys {
		unset["values."+k] = ""
	}
	_, err := c.coll.UpdateOne(ctx,
		bson.M{"_id": c.id},
		bson.M{"$unset": unset, "$set": bson.M{"updated_at": c.now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("unset client storage: %w", err)
	}
	return nil
}
