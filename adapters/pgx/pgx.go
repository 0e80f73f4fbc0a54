// Package pgx backs the session store with PostgreSQL for deployments
// where the gateway runs more than one replica and a shared store is
// required.
package pgx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventra/gateway/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	token_hash TEXT NOT NULL UNIQUE,
	api_token  TEXT NOT NULL,
	role       TEXT NOT NULL,
	user_data  JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
`

type Adapter struct {
	pool *pgxpool.Pool
}

var _ core.SessionStorage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}

// Connect opens a pool against url and ensures the session schema exists.
func Connect(ctx context.Context, url string) (*Adapter, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create session schema: %w", err)
	}
	return New(pool), nil
}

func (a *Adapter) Close() {
	a.pool.Close()
}
