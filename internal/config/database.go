package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"recolecta/internal/logger"
	"recolecta/internal/storage"
)

// OpenKV connects the persistence backend selected by StorageDriver. The
// caller owns the returned KV and must Close it.
func OpenKV(ctx context.Context, cfg Config) (storage.KV, error) {
	switch cfg.StorageDriver {
	case DriverMemory:
		logrus.Warn("Using in-memory storage, state is lost on exit")
		return storage.NewMemoryKV(), nil

	case DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("config: create sqlite dir: %w", err)
			}
		}
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{Logger: logger.GormLogger()})
		if err != nil {
			return nil, fmt.Errorf("config: open sqlite %s: %w", cfg.SQLitePath, err)
		}
		logrus.WithField("path", cfg.SQLitePath).Info("Connected to SQLite")
		return storage.NewGormKV(db)

	case DriverPostgres:
		// lib/pq speaks the wire protocol; gorm's dialector only builds SQL.
		db, err := gorm.Open(postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        cfg.DB.DSN(),
		}), &gorm.Config{Logger: logger.GormLogger()})
		if err != nil {
			return nil, fmt.Errorf("config: connect postgres: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"host": cfg.DB.Host,
			"db":   cfg.DB.Name,
		}).Info("Connected to Postgres")
		return storage.NewGormKV(db)

	case DriverRedis:
		kv, err := storage.NewRedisKV(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.Prefix)
		if err != nil {
			return nil, fmt.Errorf("config: connect redis: %w", err)
		}
		logrus.WithField("addr", cfg.Redis.Addr).Info("Connected to Redis")
		return kv, nil
	}
	return nil, fmt.Errorf("config: unknown storage driver %q", cfg.StorageDriver)
}
