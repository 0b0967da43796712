package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"proffy-mobile/config"
	"proffy-mobile/internal/db"
)

// Open builds the Store selected by cfg.Driver. The returned close function
// releases the underlying connection and is never nil.
func Open(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage; favorites are lost on restart")
		return NewMemoryStore(), noop, nil

	case config.DriverRedis:
		client, err := NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, noop, err
		}
		log.Info("redis storage connected", zap.String("addr", cfg.RedisAddr))
		return NewRedisStore(client, cfg.KeyPrefix), client.Close, nil

	case config.DriverSQLite, config.DriverPostgres:
		gormDB, err := db.Init(cfg, log)
		if err != nil {
			return nil, noop, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, noop, err
		}
		return NewGormStore(gormDB), sqlDB.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
