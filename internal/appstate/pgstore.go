package appstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGPersister stores state snapshots in the app_state key/value table.
type PGPersister struct {
	pool *pgxpool.Pool
}

// NewPGPersister wraps the given pool.
func NewPGPersister(pool *pgxpool.Pool) *PGPersister {
	return &PGPersister{pool: pool}
}

// Load fetches the snapshot for the key. The second return value is
// false when no snapshot has been saved yet.
func (p *PGPersister) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `
		SELECT data FROM app_state WHERE key = $1
	`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load app state: %w", err)
	}
	return data, true, nil
}

// Save upserts the snapshot for the key.
func (p *PGPersister) Save(ctx context.Context, key string, data []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO app_state (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()
	`, key, data)
	if err != nil {
		return fmt.Errorf("failed to save app state: %w", err)
	}
	return nil
}
