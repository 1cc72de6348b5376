package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ulbi/ukm-portal/internal/core/ports"
)

const defaultKeyPrefix = "ukm:client:"

// Storage keeps each client's durable values under
// <prefix><client_id>:<key>, refreshing the TTL on every write.
type Storage struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStorage wraps client. A non-positive ttl stores keys without expiry.
func NewStorage(client redis.UniversalClient, ttl time.Duration) *Storage {
	return &Storage{client: client, prefix: defaultKeyPrefix, ttl: ttl}
}

func (s *Storage) ForClient(clientID string) ports.Storage {
	return &clientStorage{Storage: s, ns: s.prefix + clientID + ":"}
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

type clientStorage struct {
	*Storage
	ns string
}

func (c *clientStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.Get(ctx, c.ns+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes all values in one MULTI/EXEC transaction.
func (c *clientStorage) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for k, v := range values {
			p.Set(ctx, c.ns+k, v, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *clientStorage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.ns + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
