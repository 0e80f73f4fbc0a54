package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eventra/gateway/core"
)

func openTestDB(t *testing.T) *Adapter {
	t.Helper()
	a, err := Open(t.TempDir() + "/sessions.db")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func testRecord(hash string) *core.SessionRecord {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &core.SessionRecord{
		ID:        "rec-" + hash,
		TokenHash: hash,
		APIToken:  "api-token-" + hash,
		Role:      core.RoleStudent,
		User:      core.Identity{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: core.RoleStudent},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestCreateAndGetSession(t *testing.T) {
	a := openTestDB(t)
	ctx := context.Background()

	rec := testRecord("h1")
	if err := a.CreateSession(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := a.GetSessionByHash(ctx, "h1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != rec.ID || got.APIToken != rec.APIToken || got.Role != rec.Role {
		t.Errorf("record mismatch: got %+v, want %+v", got, rec)
	}
	if got.User.Email != "ada@example.com" {
		t.Errorf("user not round-tripped: %+v", got.User)
	}
	if !got.ExpiresAt.Equal(rec.ExpiresAt) {
		t.Errorf("expires_at = %v, want %v", got.ExpiresAt, rec.ExpiresAt)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	a := openTestDB(t)

	_, err := a.GetSessionByHash(context.Background(), "missing")
	if !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestCreateSession_DuplicateHash(t *testing.T) {
	a := openTestDB(t)
	ctx := context.Background()

	if err := a.CreateSession(ctx, testRecord("dup")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	second := testRecord("dup")
	second.ID = "rec-other"
	if err := a.CreateSession(ctx, second); err == nil {
		t.Error("duplicate token hash must be rejected")
	}
}

func TestUpdateSession(t *testing.T) {
	a := openTestDB(t)
	ctx := context.Background()

	rec := testRecord("h2")
	if err := a.CreateSession(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	rec.APIToken = "rotated"
	rec.User.Name = "Ada Lovelace"
	rec.UpdatedAt = rec.UpdatedAt.Add(time.Minute)
	if err := a.UpdateSession(ctx, rec); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := a.GetSessionByHash(ctx, "h2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.APIToken != "rotated" || got.User.Name != "Ada Lovelace" {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestUpdateSession_Missing(t *testing.T) {
	a := openTestDB(t)

	err := a.UpdateSession(context.Background(), testRecord("ghost"))
	if !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestDeleteSession_Idempotent(t *testing.T) {
	a := openTestDB(t)
	ctx := context.Background()

	if err := a.CreateSession(ctx, testRecord("h3")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := a.DeleteSessionByHash(ctx, "h3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting an absent row is not an error.
	if err := a.DeleteSessionByHash(ctx, "h3"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := a.GetSessionByHash(ctx, "h3"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	a := openTestDB(t)
	ctx := context.Background()

	live := testRecord("live")
	dead := testRecord("dead")
	dead.ExpiresAt = time.Now().UTC().Add(-time.Minute)

	for _, rec := range []*core.SessionRecord{live, dead} {
		if err := a.CreateSession(ctx, rec); err != nil {
			t.Fatalf("create %s: %v", rec.TokenHash, err)
		}
	}

	n, err := a.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d rows, want 1", n)
	}
	if _, err := a.GetSessionByHash(ctx, "dead"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Error("expired session still present")
	}
	if _, err := a.GetSessionByHash(ctx, "live"); err != nil {
		t.Errorf("live session dropped: %v", err)
	}
}

func TestGetSession_CorruptUserJSON(t *testing.T) {
	a := openTestDB(t)
	ctx := context.Background()

	if err := a.CreateSession(ctx, testRecord("h4")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := a.db.ExecContext(ctx, `UPDATE sessions SET user_json = 'not-json' WHERE token_hash = 'h4'`); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	if _, err := a.GetSessionByHash(ctx, "h4"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
	// The corrupt row is removed so the next login can reuse the hash.
	var count int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE token_hash = 'h4'`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Error("corrupt row not cleared")
	}
}
