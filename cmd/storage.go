package cmd

import (
	"context"
	"fmt"

	"scanorder/config"
	"scanorder/infrastructure/persistence"
	"scanorder/infrastructure/persistence/memory"
	"scanorder/infrastructure/persistence/mysql"
	"scanorder/infrastructure/persistence/redis"
	"scanorder/infrastructure/persistence/retry"
	"scanorder/infrastructure/persistence/sqlite"
	"scanorder/pkg/logger"

	"go.uber.org/zap"
)

// OpenStore opens the configured store and wraps it with retries
func OpenStore(ctx context.Context, cfg *config.Config) (persistence.Store, error) {
	var (
		store persistence.Store
		err   error
	)

	switch cfg.Storage.Type {
	case "memory":
		store = memory.New(memory.WithQuota(cfg.Storage.Memory.QuotaBytes))
	case "sqlite", "":
		store, err = sqlite.Open(cfg.Storage.SQLite.Path)
	case "mysql":
		store, err = mysql.Open(ctx, mysql.FromAppConfig(cfg.Storage.MySQL))
	case "redis":
		store = redis.New(redis.Config{
			Addr:      cfg.Storage.Redis.Addr,
			Password:  cfg.Storage.Redis.Password,
			DB:        cfg.Storage.Redis.DB,
			KeyPrefix: cfg.Storage.Redis.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Type, err)
	}

	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to reach %s store: %w", cfg.Storage.Type, err)
	}

	logger.Info("Store opened", zap.String("type", cfg.Storage.Type))

	retryCfg := retry.FromAppConfig(cfg)
	if !retryCfg.Enabled {
		return store, nil
	}
	return retry.NewStore(store, retryCfg), nil
}
