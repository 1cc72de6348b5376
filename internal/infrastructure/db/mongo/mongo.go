package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	defaultAppName = "ukm-portal"
)

// Config describes the MongoDB deployment holding client sessions.
type Config struct {
	URI      string
	Database string
	// AppName is reported to the server and shows up in its logs and
	// currentOp output.
	AppName     string
	Timeout     time.Duration
	MaxPoolSize uint64
}

func (cfg Config) clientOptions() *options.ClientOptions {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	app := cfg.AppName
	if app == "" {
		app = defaultAppName
	}
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(app).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	return opts
}

// Connect opens the client, pings the primary and returns the session
// database. The client is disconnected again when the ping fails.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	opts := cfg.clientOptions()

	connectCtx, cancel := context.WithTimeout(ctx, *opts.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return client, client.Database(cfg.Database), nil
}
