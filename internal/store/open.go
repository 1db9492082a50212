package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"equipment-portal/pkg/config"
	"equipment-portal/pkg/database/postgresql"
	"equipment-portal/pkg/idgen"
)

// OpenBackend builds the backend selected by cfg.Driver.
func OpenBackend(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Backend, error) {
	switch cfg.Driver {
	case "", "json":
		return NewJSONFileBackend(cfg.Dir)
	case "memory":
		return NewMemoryBackend(), nil
	case "sqlite":
		return NewSQLiteBackend(cfg.SQLitePath)
	case "badger":
		return NewBadgerBackend(cfg.BadgerDir)
	case "postgres":
		pool, err := postgresql.ConnectDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("connected to postgres record store")
		return NewPostgresBackend(pool), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Open builds a ready Store from the full configuration: backend, identifier
// strategy and, when enabled, Redis collection locks.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	backend, err := OpenBackend(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithLogger(logger.Named("store")),
		WithIDGenerator(idgen.New(idgen.Strategy(cfg.Store.IDStrategy))),
	}

	if cfg.Redis.Locks {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			_ = backend.Close()
			return nil, fmt.Errorf("connect to redis %s: %w", cfg.Redis.Address, err)
		}
		logger.Info("using redis collection locks", zap.String("address", cfg.Redis.Address))
		opts = append(opts,
			WithLocker(NewRedisLocker(client, cfg.Redis.LockTTL, logger.Named("locks"))),
			WithCloser(client.Close),
		)
	}

	logger.Info("record store opened", zap.String("driver", cfg.Store.Driver), zap.String("ids", cfg.Store.IDStrategy))
	return New(backend, opts...), nil
}
