// Package session owns the gateway's authorization model: the session store
// (single writer of session state), the route guard, pending-redirect
// resolution, and the role-conditioned navigation sets.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/eventra/gateway/core"
	"github.com/eventra/gateway/pkg/crypto"
)

// DefaultMaxAge bounds a gateway session's lifetime.
const DefaultMaxAge = 24 * time.Hour

// Store is the single source of truth for "who is logged in and with what
// role". It is the only component that writes session state; the guard and
// the handlers only read.
type Store struct {
	api     core.AuthAPI
	storage core.SessionStorage
	cache   core.Cache // optional, can be nil if caching is disabled
	maxAge  time.Duration
}

// NewStore wires the session store. A nil cache disables caching; a zero
// maxAge falls back to DefaultMaxAge.
func NewStore(api core.AuthAPI, storage core.SessionStorage, cache core.Cache, maxAge time.Duration) *Store {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Store{api: api, storage: storage, cache: cache, maxAge: maxAge}
}

// LoginResult couples the resolved session with the raw cookie token the
// HTTP adapter sets on the browser.
type LoginResult struct {
	Session     *core.Session
	CookieToken string
}

// Restore resolves the session for a browser cookie token. It always returns
// a terminal session: authenticated when the persisted record is intact and
// the platform still accepts its bearer token, anonymous otherwise. Failures
// are swallowed and persisted state is cleared, so a broken record can never
// be mistaken for a live one.
func (s *Store) Restore(ctx context.Context, cookieToken string) *core.Session {
	if cookieToken == "" {
		return core.Anonymous()
	}

	tokenHash := crypto.HashToken(cookieToken)

	if s.cache != nil {
		if sess, err := s.cache.Get(tokenHash); err == nil && sess.IsAuthenticated() {
			return sess
		}
	}

	rec, err := s.storage.GetSessionByHash(ctx, tokenHash)
	if err != nil || rec == nil {
		return core.Anonymous()
	}
	// The record must belong to the presented token; a row whose stored hash
	// no longer matches is treated like any other corrupt record.
	if ok, err := crypto.VerifyToken(cookieToken, rec.TokenHash); err != nil || !ok {
		s.clear(ctx, tokenHash)
		return core.Anonymous()
	}
	if time.Now().After(rec.ExpiresAt) || !rec.Role.Valid() || rec.APIToken == "" {
		s.clear(ctx, tokenHash)
		return core.Anonymous()
	}

	// Re-fetch the profile for the persisted role so a revoked upstream
	// token degrades to anonymous here rather than on a later page load.
	user, err := s.api.Profile(ctx, rec.Role, rec.APIToken)
	if err != nil {
		s.clear(ctx, tokenHash)
		return core.Anonymous()
	}

	rec.User = *user
	rec.UpdatedAt = time.Now()
	_ = s.storage.UpdateSession(ctx, rec) // refresh is best effort

	sess := &core.Session{User: user, Token: rec.APIToken}
	if s.cache != nil {
		_ = s.cache.Set(tokenHash, sess)
	}
	return sess
}

// Login authenticates against the role's login endpoint. On success the
// session and its persisted record are created atomically; on failure the
// upstream error propagates unchanged and no state is written.
func (s *Store) Login(ctx context.Context, creds core.Credentials, role core.Role) (*LoginResult, error) {
	result, err := s.api.Login(ctx, role, creds)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, result, role)
}

// Register has the same contract as Login: the newly registered identity is
// logged in immediately.
func (s *Store) Register(ctx context.Context, reg core.Registration, role core.Role) (*LoginResult, error) {
	result, err := s.api.Register(ctx, role, reg)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, result, role)
}

// establish persists a fresh gateway session for an upstream auth result.
func (s *Store) establish(ctx context.Context, result *core.AuthResult, role core.Role) (*LoginResult, error) {
	pair, err := crypto.GenerateHashedToken()
	if err != nil {
		return nil, err
	}
	id, err := crypto.NewRecordID()
	if err != nil {
		return nil, err
	}

	user := result.User
	user.Role = role

	now := time.Now()
	rec := &core.SessionRecord{
		ID:        id,
		TokenHash: pair.Hash,
		APIToken:  result.Token,
		Role:      role,
		User:      user,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.maxAge),
	}

	if err := s.storage.CreateSession(ctx, rec); err != nil {
		return nil, err
	}

	sess := &core.Session{User: &user, Token: result.Token}
	if s.cache != nil {
		// A cache failure must not fail the login.
		_ = s.cache.Set(pair.Hash, sess)
	}

	return &LoginResult{Session: sess, CookieToken: pair.Token}, nil
}

// Logout clears the session's persisted record and cache entry. It never
// fails and never calls the network; clearing an already-cleared session is
// a no-op.
func (s *Store) Logout(ctx context.Context, cookieToken string) {
	if cookieToken == "" {
		return
	}
	s.clear(ctx, crypto.HashToken(cookieToken))
}

// Invalidate has the same effect as Logout. It exists so callers that saw an
// upstream 401 can say what happened: any 401 on an authenticated request
// means the platform no longer honors the bearer token.
func (s *Store) Invalidate(ctx context.Context, cookieToken string) {
	s.Logout(ctx, cookieToken)
}

func (s *Store) clear(ctx context.Context, tokenHash string) {
	if s.cache != nil {
		_ = s.cache.Delete(tokenHash)
	}
	if err := s.storage.DeleteSessionByHash(ctx, tokenHash); err != nil && !errors.Is(err, core.ErrSessionNotFound) {
		// Logout must not fail; a storage hiccup leaves an orphan record
		// that expiry cleanup removes later.
		return
	}
}
