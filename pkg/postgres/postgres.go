// Package postgres opens pooled sqlx connections to PostgreSQL through the
// pgx driver and applies schema migrations.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type options struct {
	connMaxIdleTime time.Duration
	connMaxLifetime time.Duration
	maxIdleConns    int
	maxOpenConns    int
	connectAttempts int
	connectDelay    time.Duration
}

func defaultOptions() options {
	return options{
		connMaxIdleTime: 5 * time.Minute,
		connMaxLifetime: 30 * time.Minute,
		maxIdleConns:    5,
		maxOpenConns:    25,
		connectAttempts: 1,
		connectDelay:    time.Second,
	}
}

type Option func(*options)

func WithConnMaxIdleTime(d time.Duration) Option {
	return func(o *options) {
		o.connMaxIdleTime = d
	}
}

func WithConnMaxLifetime(d time.Duration) Option {
	return func(o *options) {
		o.connMaxLifetime = d
	}
}

func WithMaxIdleConns(n int) Option {
	return func(o *options) {
		o.maxIdleConns = n
	}
}

func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		o.maxOpenConns = n
	}
}

// WithConnectRetry makes New try to connect up to attempts times, sleeping
// delay between failures. It is meant for a database that starts together
// with the service.
func WithConnectRetry(attempts int, delay time.Duration) Option {
	return func(o *options) {
		if attempts > 0 {
			o.connectAttempts = attempts
		}
		if delay > 0 {
			o.connectDelay = delay
		}
	}
}

// New connects to the database at dsn and configures its pool.
func New(ctx context.Context, dsn string, opts ...Option) (*sqlx.DB, error) {
	const op = "postgres.New"

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var (
		db  *sqlx.DB
		err error
	)

	for attempt := 1; ; attempt++ {
		db, err = sqlx.ConnectContext(ctx, "pgx", dsn)
		if err == nil {
			break
		}

		if attempt >= o.connectAttempts {
			return nil, fmt.Errorf("%s: failed to connect to database after %d attempt(s): %w", op, attempt, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(o.connectDelay):
		}
	}

	db.SetConnMaxIdleTime(o.connMaxIdleTime)
	db.SetConnMaxLifetime(o.connMaxLifetime)
	db.SetMaxIdleConns(o.maxIdleConns)
	db.SetMaxOpenConns(o.maxOpenConns)

	return db, nil
}
