package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/ports"
	"github.com/ulbi/ukm-portal/internal/infrastructure/config"
	mongodb "github.com/ulbi/ukm-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/ulbi/ukm-portal/internal/infrastructure/db/redis"
)

// Open connects the driver named by cfg.Storage.Driver. The returned close
// function releases the underlying connection.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.StorageProvider, func(context.Context) error, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory client storage; sessions are lost on restart")
		return NewMemory(), func(context.Context) error { return nil }, nil

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			AppName:     cfg.Mongo.AppName,
			Timeout:     cfg.Mongo.Timeout,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, nil, err
		}
		s := mongodb.NewStorage(db)
		if err := s.EnsureIndexes(ctx, cfg.Storage.TTL); err != nil {
			log.Warn().Err(err).Msg("mongo client storage ttl index not created")
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB client storage")
		return s, client.Disconnect, nil

	case config.DriverRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("connected to Redis client storage")
		return redisdb.NewStorage(client, cfg.Storage.TTL), func(context.Context) error { return client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
