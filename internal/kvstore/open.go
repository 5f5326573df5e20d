package kvstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/storefront/internal/config"
	"github.com/BradenHooton/storefront/internal/database"
)

// Open builds the backend selected by cfg.Store.Backend. The returned close
// function releases the backend's connections.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		logger.Info("using in-memory store")
		return NewMemoryStore(), func() {}, nil

	case config.StoreRedis:
		client, err := ConnectRedis(ctx, RedisConfig{
			URL:            cfg.Store.RedisURL,
			RetryAttempts:  cfg.Store.RedisRetryAttempts,
			RetryInterval:  cfg.Store.RedisRetryInterval,
			ConnectTimeout: cfg.Store.RedisConnectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis store")
		return NewRedisStore(client, "storefront:"), func() { _ = client.Close() }, nil

	case config.StorePostgres:
		db, err := database.NewConnection(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("using postgres store")
		return NewPostgresStore(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
