package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poolScope/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS pools (
	chain_id     BIGINT      NOT NULL,
	pool_address TEXT        NOT NULL,
	factory      TEXT        NOT NULL,
	pool_type    TEXT        NOT NULL,
	token0       TEXT        NOT NULL,
	token1       TEXT        NOT NULL,
	fee          INTEGER     NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, pool_address)
)`

// Store provides Postgres persistence for discovered pools.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the pools table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create pools table: %w", err)
	}
	return nil
}

// PutPoolBatch implements storage.Storage.
func (s *Store) PutPoolBatch(ctx context.Context, pools []model.Pool) error {
	return s.UpsertPools(ctx, pools)
}

// UpsertPools inserts or updates pool records.
func (s *Store) UpsertPools(ctx context.Context, pools []model.Pool) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pool := range pools {
		batch.Queue(`
			INSERT INTO pools (
				chain_id, pool_address, factory, pool_type, token0, token1, fee, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (chain_id, pool_address)
			DO UPDATE SET
				factory = EXCLUDED.factory,
				pool_type = EXCLUDED.pool_type,
				token0 = EXCLUDED.token0,
				token1 = EXCLUDED.token1,
				fee = EXCLUDED.fee,
				updated_at = now()
		`,
			int64(pool.ChainID),
			pool.Address,
			pool.Factory,
			pool.Type.String(),
			pool.Token0,
			pool.Token1,
			int32(pool.Fee),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
