package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createBlocksTable = `CREATE TABLE IF NOT EXISTS ledger_blocks (
	position INTEGER PRIMARY KEY,
	payload  BYTEA NOT NULL
)`

// PostgresStore keeps one row per block. The raw json bytes are stored so that numbers and
// strings come back exactly as saved.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createBlocksTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create ledger_blocks: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]model.Block, error) {
	rows, err := s.pool.Query(ctx, `SELECT payload FROM ledger_blocks ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	chain := []model.Block{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		block := model.Block{}
		if err := decodeJSON(payload, &block); err != nil {
			return nil, fmt.Errorf("corrupted block at position %d: %w", len(chain)+1, err)
		}
		chain = append(chain, block)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, ErrNoSnapshot
	}
	return chain, nil
}

// Save rewrites every row in one transaction.
func (s *PostgresStore) Save(ctx context.Context, chain []model.Block) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ledger_blocks`); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	for i := range chain {
		payload, err := json.Marshal(&chain[i])
		if err != nil {
			return err
		}
		batch.Queue(`INSERT INTO ledger_blocks (position, payload) VALUES ($1, $2)`, i+1, payload)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
