package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultConnectTimeout = 10 * time.Second
	readyTimeout          = 2 * time.Second
)

// Config sizes the catalog connection pool.
type Config struct {
	URL            string
	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration
}

// NewPool opens the catalog pool and fails fast when Postgres is unreachable.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if poolConfig.MinConns > poolConfig.MaxConns {
		poolConfig.MinConns = poolConfig.MaxConns
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, domain.StoreUnavailable("open catalog pool", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, domain.StoreUnavailable("ping catalog", err)
	}

	logging.Debug().
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("database pool ready")
	return pool, nil
}

// ErrSchemaMissing means the pool connects but migrations have not run.
var ErrSchemaMissing = errors.New("catalog schema missing")

// Ready returns a readiness probe that requires a live connection and a
// migrated catalog.
func Ready(pool *pgxpool.Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, readyTimeout)
		defer cancel()

		var migrated bool
		err := pool.QueryRow(ctx, "SELECT to_regclass('public.recipes') IS NOT NULL").Scan(&migrated)
		if err != nil {
			return domain.StoreUnavailable("readiness probe", err)
		}
		if !migrated {
			return ErrSchemaMissing
		}
		return nil
	}
}
