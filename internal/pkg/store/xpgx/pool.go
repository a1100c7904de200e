// Package xpgx wraps pgxpool so every statement runs on a connection that is
// acquired for that statement only and released on every exit path.
package xpgx

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Pool struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string, maxConns int32) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Pool{pool: pool}, nil
}

func (p *Pool) Close() {
	p.pool.Close()
}

func (p *Pool) withConn(ctx context.Context, fn func(conn *pgxpool.Conn) error) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	defer conn.Release()

	return fn(conn)
}

// Exec runs a raw statement.
func (p *Pool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	err := p.withConn(ctx, func(conn *pgxpool.Conn) error {
		var execErr error
		tag, execErr = conn.Exec(ctx, sql, args...)
		return execErr
	})
	return tag, err
}

// Execx runs a squirrel statement.
func (p *Pool) Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("ToSql: %w", err)
	}
	return p.Exec(ctx, sql, args...)
}

// Getx returns the single row selected by query, or pgx.ErrNoRows.
func Getx[T any](ctx context.Context, p *Pool, query squirrel.Sqlizer) (*T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ToSql: %w", err)
	}

	var selected *T
	err = p.withConn(ctx, func(conn *pgxpool.Conn) error {
		rows, queryErr := conn.Query(ctx, sql, args...)
		if queryErr != nil {
			return queryErr
		}

		var collectErr error
		selected, collectErr = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
		return collectErr
	})
	if err != nil {
		return nil, err
	}

	return selected, nil
}

// Selectx returns every row selected by query.
func Selectx[T any](ctx context.Context, p *Pool, query squirrel.Sqlizer) ([]*T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ToSql: %w", err)
	}

	var selected []*T
	err = p.withConn(ctx, func(conn *pgxpool.Conn) error {
		rows, queryErr := conn.Query(ctx, sql, args...)
		if queryErr != nil {
			return queryErr
		}

		var collectErr error
		selected, collectErr = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
		return collectErr
	})
	if err != nil {
		return nil, err
	}

	return selected, nil
}
