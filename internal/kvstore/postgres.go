package kvstore

import (
	"context"
	"errors"
	"fmt"

	"aurora-commerce/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres keeps every key as a row of the kv_entries table.
type Postgres struct {
	pool   *pgxpool.Pool
	q      querier
	logger *logrus.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *logrus.Logger) *Postgres {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Postgres{pool: pool, q: pool, logger: logger}
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `
SELECT value
FROM kv_entries
WHERE key = $1
`
	var value string
	if err := p.q.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.WithField("key", key).WithError(err).Error("kv postgres: get")
		return nil, fmt.Errorf("kv postgres get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO kv_entries (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	if _, err := p.q.Exec(ctx, q, key, string(value)); err != nil {
		p.logger.WithField("key", key).WithError(err).Error("kv postgres: set")
		return fmt.Errorf("kv postgres set %s: %w", key, err)
	}
	p.logger.WithFields(logrus.Fields{"key": key, "bytes": len(value)}).Debug("kv postgres: set")
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.q.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		p.logger.WithField("key", key).WithError(err).Error("kv postgres: delete")
		return fmt.Errorf("kv postgres delete %s: %w", key, err)
	}
	return nil
}

// InTx runs fn against a single database transaction.
func (p *Postgres) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("kv postgres begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &Postgres{pool: p.pool, q: tx, logger: p.logger}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("kv postgres commit: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
