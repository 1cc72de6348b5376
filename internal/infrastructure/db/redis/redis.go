package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultPoolSize    = 10
)

// Config describes the Redis instance holding client sessions.
type Config struct {
	Addr     string
	Password string
	DB       int
	// PoolSize bounds concurrent connections; every browser request may
	// touch storage, so it tracks the expected request concurrency.
	PoolSize int
	Timeout  time.Duration
}

func (cfg Config) options() *redis.Options {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	pool := cfg.PoolSize
	if pool <= 0 {
		pool = defaultPoolSize
	}
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     pool,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
}

// Connect opens the session store connection and pings it once. The client
// is closed again when the ping fails.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := cfg.options()
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s db %d: %w", cfg.Addr, cfg.DB, err)
	}
	return client, nil
}
