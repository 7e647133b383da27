package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"event-explorer/internal/logger"
)

type entry struct {
	bun.BaseModel `bun:"table:kv_entries"`

	Key       string    `bun:"kv_key,pk"`
	Value     []byte    `bun:"kv_value"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// DB keeps entries in a single kv_entries table.
type DB struct {
	Bun *bun.DB
}

// NewDB creates the kv_entries table if needed.
func NewDB(ctx context.Context, db *bun.DB) (*DB, error) {
	_, err := db.NewCreateTable().Model((*entry)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("create kv_entries table: %w", err)
	}
	return &DB{Bun: db}, nil
}

func OpenSQLite(ctx context.Context, dsn string) (*DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	sqldb.SetMaxOpenConns(1)

	store, err := NewDB(ctx, bun.NewDB(sqldb, sqlitedialect.New()))
	if err != nil {
		sqldb.Close()
		return nil, err
	}
	return store, nil
}

func OpenPostgres(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", dsn)
		if err == nil {
			err = sqldb.PingContext(ctx)
			if err == nil {
				break
			}
			sqldb.Close()
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres after %d attempts: %w", maxRetries, err)
	}

	store, err := NewDB(ctx, bun.NewDB(sqldb, pgdialect.New()))
	if err != nil {
		sqldb.Close()
		return nil, err
	}
	return store, nil
}

func (d *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var e entry
	err := d.Bun.NewSelect().
		Model(&e).
		Where("kv_key = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return e.Value, nil
}

func (d *DB) Set(ctx context.Context, key string, value []byte) error {
	e := entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := d.Bun.NewInsert().
		Model(&e).
		On("CONFLICT (kv_key) DO UPDATE").
		Set("kv_value = EXCLUDED.kv_value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (d *DB) Delete(ctx context.Context, key string) error {
	_, err := d.Bun.NewDelete().
		Model((*entry)(nil)).
		Where("kv_key = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (d *DB) Close() error {
	return d.Bun.Close()
}
