package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eventra/gateway/core"
)

var _ core.SessionStorage = (*Adapter)(nil)

func (a *Adapter) CreateSession(ctx context.Context, rec *core.SessionRecord) error {
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	query := `INSERT INTO sessions (id, token_hash, api_token, role, user_json, created_at, updated_at, expires_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = a.db.ExecContext(ctx, query,
		rec.ID,
		rec.TokenHash,
		rec.APIToken,
		string(rec.Role),
		string(userJSON),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
		rec.ExpiresAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (a *Adapter) GetSessionByHash(ctx context.Context, tokenHash string) (*core.SessionRecord, error) {
	query := `SELECT id, token_hash, api_token, role, user_json, created_at, updated_at, expires_at
	          FROM sessions WHERE token_hash = ?`

	var (
		rec      core.SessionRecord
		role     string
		userJSON string
		created  string
		updated  string
		expires  string
	)
	err := a.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&rec.ID, &rec.TokenHash, &rec.APIToken, &role, &userJSON, &created, &updated, &expires,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}

	rec.Role = core.Role(role)
	if err := json.Unmarshal([]byte(userJSON), &rec.User); err != nil {
		// Corrupt persisted data is cleared rather than left inconsistent.
		_ = a.DeleteSessionByHash(ctx, tokenHash)
		return nil, core.ErrSessionNotFound
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	if rec.ExpiresAt, err = parseTime(expires); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (a *Adapter) UpdateSession(ctx context.Context, rec *core.SessionRecord) error {
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	query := `UPDATE sessions SET api_token = ?, role = ?, user_json = ?, updated_at = ? WHERE token_hash = ?`
	result, err := a.db.ExecContext(ctx, query,
		rec.APIToken,
		string(rec.Role),
		string(userJSON),
		rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
		rec.TokenHash,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	result, err := a.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse session timestamp %q: %w", v, err)
	}
	return t, nil
}
