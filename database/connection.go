package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "lottoledger"

// PoolOptions tunes the pool for the ledger's row-lock heavy transactions
type PoolOptions struct {
	// MaxConns caps concurrent transactions; zero keeps the pgxpool default
	MaxConns int32
	// LockTimeout bounds how long a statement waits on a row lock.
	// Expiry surfaces as SQLSTATE 55P03, which the repositories report as a retryable conflict.
	LockTimeout time.Duration
	// MaxConnIdleTime closes connections idle for longer; zero keeps the pgxpool default
	MaxConnIdleTime time.Duration
}

// DefaultPoolOptions returns the options used when nothing is configured
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		LockTimeout:     5 * time.Second,
		MaxConnIdleTime: 5 * time.Minute,
	}
}

// DB represents a database connection pool
type DB struct {
	*pgxpool.Pool
}

// NewConnection creates a new database connection pool
func NewConnection(ctx context.Context, databaseURL string, opts PoolOptions) (*DB, error) {
	config, err := newPoolConfig(databaseURL, opts)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// newPoolConfig parses databaseURL and applies the session settings every ledger connection needs
func newPoolConfig(databaseURL string, opts PoolOptions) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	params := config.ConnConfig.RuntimeParams
	// All timestamps are written and read in UTC
	params["timezone"] = "UTC"
	if _, ok := params["application_name"]; !ok {
		params["application_name"] = applicationName
	}
	if opts.LockTimeout > 0 {
		params["lock_timeout"] = strconv.FormatInt(opts.LockTimeout.Milliseconds(), 10)
	}

	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
		if config.MinConns > config.MaxConns {
			config.MinConns = config.MaxConns
		}
	}
	if opts.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	return config, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}
