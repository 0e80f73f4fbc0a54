// Package sqlite is the default durable session store: a single-file
// database playing the role browser localStorage played in the original
// front end, so sessions survive a gateway restart without external
// infrastructure.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	token_hash TEXT NOT NULL UNIQUE,
	api_token  TEXT NOT NULL,
	role       TEXT NOT NULL,
	user_json  TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	expires_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
`

// Adapter implements core.SessionStorage on a SQLite file.
type Adapter struct {
	db *sql.DB
}

// Open opens (creating if needed) the session database at path. ":memory:"
// is accepted for tests.
func Open(path string) (*Adapter, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	// modernc's driver is not safe for concurrent writers on one connection
	// pool entry; a single connection serializes access.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session schema: %w", err)
	}

	return &Adapter{db: db}, nil
}

func (a *Adapter) Close() error {
	return a.db.Close()
}
