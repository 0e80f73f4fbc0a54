package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/eventra/gateway/core"
)

func (a *Adapter) CreateSession(ctx context.Context, rec *core.SessionRecord) error {
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	query := `INSERT INTO sessions (id, token_hash, api_token, role, user_data, created_at, updated_at, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = a.pool.Exec(ctx, query,
		rec.ID, rec.TokenHash, rec.APIToken, string(rec.Role), userJSON,
		rec.CreatedAt, rec.UpdatedAt, rec.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (a *Adapter) GetSessionByHash(ctx context.Context, tokenHash string) (*core.SessionRecord, error) {
	query := `SELECT id, token_hash, api_token, role, user_data, created_at, updated_at, expires_at
	          FROM sessions WHERE token_hash = $1`

	var (
		rec      core.SessionRecord
		role     string
		userJSON []byte
	)
	err := a.pool.QueryRow(ctx, query, tokenHash).Scan(
		&rec.ID, &rec.TokenHash, &rec.APIToken, &role, &userJSON,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}

	rec.Role = core.Role(role)
	if err := json.Unmarshal(userJSON, &rec.User); err != nil {
		_ = a.DeleteSessionByHash(ctx, tokenHash)
		return nil, core.ErrSessionNotFound
	}
	return &rec, nil
}

func (a *Adapter) UpdateSession(ctx context.Context, rec *core.SessionRecord) error {
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	query := `UPDATE sessions SET api_token = $1, role = $2, user_data = $3, updated_at = $4 WHERE token_hash = $5`
	tag, err := a.pool.Exec(ctx, query,
		rec.APIToken, string(rec.Role), userJSON, rec.UpdatedAt, rec.TokenHash,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	if _, err := a.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
