package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/GoSim-25-26J-441/feast-registry/config"
	"github.com/GoSim-25-26J-441/feast-registry/internal/storage/postgres"
)

type DB struct {
	Pool *pgxpool.Pool
	sql  *sql.DB
}

func Open(ctx context.Context, dbCfg *config.DatabaseConfig) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(postgres.DSN(dbCfg))
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = int32(dbCfg.MaxConns)
	cfg.MinConns = int32(dbCfg.MinConns)
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	// Fail fast
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return &DB{Pool: pool, sql: stdlib.OpenDBFromPool(pool)}, nil
}

// SQL exposes the pool through database/sql.
func (d *DB) SQL() *sql.DB {
	return d.sql
}

func (d *DB) Close() {
	if d == nil {
		return
	}
	if d.sql != nil {
		_ = d.sql.Close()
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
}
