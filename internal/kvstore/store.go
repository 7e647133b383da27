// Package kvstore is the local key-value persistence used for favorites and
// the user profile. Values are opaque bytes (JSON in practice).
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"event-explorer/internal/config"
	"event-explorer/internal/logger"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open picks the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.KVConfig, log *logger.Logger) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		log.Info("KVSTORE", "Using in-memory key-value store (state is lost on exit)")
		return NewMemory(), nil
	case "redis":
		store, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		log.Info("KVSTORE", fmt.Sprintf("✅ Redis key-value store connected at %s (DB: %d)", cfg.RedisAddr, cfg.RedisDB))
		return store, nil
	case "sqlite":
		store, err := OpenSQLite(ctx, cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		log.Info("KVSTORE", "✅ SQLite key-value store ready")
		return store, nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, errors.New("kvstore: POSTGRES_DSN not set")
		}
		store, err := OpenPostgres(ctx, cfg.PostgresDSN, log)
		if err != nil {
			return nil, err
		}
		log.Info("KVSTORE", "✅ PostgreSQL key-value store ready")
		return store, nil
	default:
		return nil, fmt.Errorf("kvstore: unknown backend %q", cfg.Backend)
	}
}
