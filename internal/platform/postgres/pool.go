// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the pgx pool behind the identity, authority and
// temporary token stores.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/advisor/internal/platform/constants"
)

const pingTimeout = 2 * time.Second

// Options tunes the pool. The zero value is not useful; start from [DefaultOptions].
type Options struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration

	// StatementTimeout bounds every statement on every connection.
	StatementTimeout time.Duration

	// SearchPath resolves unqualified table names.
	SearchPath string
}

// DefaultOptions sizes the pool for short identity lookups at modest concurrency.
func DefaultOptions() Options {
	return Options{
		MaxConns:          20,
		MinConns:          2,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   10 * time.Minute,
		HealthCheckPeriod: time.Minute,
		ConnectTimeout:    5 * time.Second,
		StatementTimeout:  constants.GlobalRequestTimeout,
		SearchPath:        constants.SchemaMember + ", public",
	}
}

// SessionSetup is the SQL run on every new physical connection.
func (o Options) SessionSetup() string {
	return fmt.Sprintf("SET statement_timeout = %d; SET search_path = %s",
		o.StatementTimeout.Milliseconds(), o.SearchPath)
}

/*
NewPool creates the pool and pings it once, so a bad DSN or an unreachable
server fails at startup instead of on the first login.
*/
func NewPool(ctx context.Context, dsn string, options Options, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = options.MaxConns
	poolConfig.MinConns = options.MinConns
	poolConfig.MaxConnLifetime = options.MaxConnLifetime
	poolConfig.MaxConnIdleTime = options.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = options.HealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = options.ConnectTimeout

	setup := options.SessionSetup()
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		_, err := connection.Exec(ctx, setup)
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, options.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(options.MaxConns)),
	)

	return pool, nil
}

// Ping is the readiness probe for the pool.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
