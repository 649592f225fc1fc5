// Package repository provides the PostgreSQL data access layer.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig tunes the connection pool.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
	// QueryTimeout bounds every store call, including the wait for a
	// free connection when the pool is exhausted.
	QueryTimeout time.Duration
}

// DefaultPoolConfig returns the settings used when none are given.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MaxConns: 10, MinConns: 2, QueryTimeout: 5 * time.Second}
}

// Repository provides database access methods.
type Repository struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string, cfg PoolConfig) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	defaults := DefaultPoolConfig()
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = defaults.MaxConns
	}
	if cfg.MinConns < 0 || cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = defaults.MinConns
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaults.QueryTimeout
	}

	// Connection pool settings
	config.MaxConns = cfg.MaxConns
	config.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool, queryTimeout: cfg.QueryTimeout}, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Repository.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.queryTimeout)
}
