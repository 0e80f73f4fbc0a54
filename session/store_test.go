package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eventra/gateway/core"
	"github.com/eventra/gateway/pkg/cache"
	"github.com/eventra/gateway/pkg/crypto"
)

var testUser = core.Identity{ID: "u1", Name: "Ada", Email: "ada@example.com"}

func newTestStore(api core.AuthAPI, storage core.SessionStorage, c core.Cache) *Store {
	return NewStore(api, storage, c, time.Hour)
}

// Requirement: user and token are set together on login; the round-trip
// yields the requested role.
func TestStore_LoginRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		role core.Role
	}{
		{name: "student login", role: core.RoleStudent},
		{name: "manager login", role: core.RoleManager},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			api := NewFakeAuthAPI(testUser, "bearer-1")
			storage := NewFakeSessionStorage()
			store := newTestStore(api, storage, nil)

			result, err := store.Login(context.Background(), core.Credentials{Email: "ada@example.com", Password: "pw"}, test.role)
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if !result.Session.IsAuthenticated() {
				t.Fatal("session not authenticated after login")
			}
			if result.Session.User.Role != test.role {
				t.Errorf("role = %q, want %q", result.Session.User.Role, test.role)
			}
			if result.CookieToken == "" {
				t.Error("cookie token is empty")
			}
			if storage.Len() != 1 {
				t.Errorf("persisted records = %d, want 1", storage.Len())
			}

			// Invariant: user set ⟺ token set.
			if (result.Session.User != nil) != (result.Session.Token != "") {
				t.Error("user/token invariant violated")
			}
		})
	}
}

// Requirement: login failures propagate unchanged and write no state.
func TestStore_LoginFailureLeavesNoState(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-1")
	api.loginErr = &core.APIError{Status: 401, Message: "invalid email or password"}
	storage := NewFakeSessionStorage()
	store := newTestStore(api, storage, nil)

	_, err := store.Login(context.Background(), core.Credentials{}, core.RoleStudent)

	var apiErr *core.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "invalid email or password" {
		t.Fatalf("error = %v, want upstream APIError unchanged", err)
	}
	if storage.Len() != 0 {
		t.Errorf("persisted records = %d, want 0", storage.Len())
	}
}

// Requirement: a storage failure during login must not yield a half-open
// session.
func TestStore_LoginStorageFailure(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-1")
	storage := NewFakeSessionStorage()
	storage.createErr = errors.New("disk full")
	store := newTestStore(api, storage, cache.New(cache.Config{}))

	result, err := store.Login(context.Background(), core.Credentials{}, core.RoleManager)
	if err == nil {
		t.Fatal("expected error")
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
}

// Requirement: register has the same contract as login; the new identity is
// logged in immediately.
func TestStore_RegisterLogsIn(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-2")
	storage := NewFakeSessionStorage()
	store := newTestStore(api, storage, nil)

	result, err := store.Register(context.Background(), core.Registration{Name: "New", Email: "new@example.com", Password: "pw"}, core.RoleStudent)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !result.Session.IsStudent() {
		t.Error("registered session should be a student session")
	}
	if result.Session.User.Email != "new@example.com" {
		t.Errorf("email = %q", result.Session.User.Email)
	}

	restored := store.Restore(context.Background(), result.CookieToken)
	if !restored.IsAuthenticated() {
		t.Error("restore after register should be authenticated")
	}
}

// Requirement: restore resolves a persisted session by re-fetching the
// profile for the persisted role.
func TestStore_RestoreRefetchesProfile(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-1")
	storage := NewFakeSessionStorage()
	store := newTestStore(api, storage, nil)

	login, err := store.Login(context.Background(), core.Credentials{}, core.RoleManager)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	api.user.Name = "Ada Updated" // profile changed upstream

	sess := store.Restore(context.Background(), login.CookieToken)
	if !sess.IsAuthenticated() {
		t.Fatal("restore should be authenticated")
	}
	if sess.User.Name != "Ada Updated" {
		t.Errorf("restore did not refresh identity: name = %q", sess.User.Name)
	}
	if sess.User.Role != core.RoleManager {
		t.Errorf("role = %q, want manager", sess.User.Role)
	}
	if api.ProfileCalls() != 1 {
		t.Errorf("profile calls = %d, want 1", api.ProfileCalls())
	}
}

// Requirement: restore failures degrade to anonymous and clear persisted
// state; they never surface an error.
func TestStore_RestoreFailureClearsState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(api *FakeAuthAPI, storage *FakeSessionStorage, cookieToken string)
	}{
		{
			name: "upstream 401",
			setup: func(api *FakeAuthAPI, storage *FakeSessionStorage, _ string) {
				api.profileErr = core.ErrSessionInvalidated
			},
		},
		{
			name: "network error",
			setup: func(api *FakeAuthAPI, storage *FakeSessionStorage, _ string) {
				api.profileErr = core.ErrUpstreamUnavailable
			},
		},
		{
			name: "malformed response",
			setup: func(api *FakeAuthAPI, storage *FakeSessionStorage, _ string) {
				api.profileErr = core.ErrMalformedResponse
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			api := NewFakeAuthAPI(testUser, "bearer-1")
			storage := NewFakeSessionStorage()
			store := newTestStore(api, storage, nil)

			login, err := store.Login(context.Background(), core.Credentials{}, core.RoleStudent)
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			test.setup(api, storage, login.CookieToken)

			sess := store.Restore(context.Background(), login.CookieToken)
			if sess.IsAuthenticated() {
				t.Error("restore should be anonymous after failure")
			}
			if sess.User != nil || sess.Token != "" {
				t.Error("user/token must both be unset")
			}
			if storage.Len() != 0 {
				t.Errorf("persisted records = %d, want 0 after clear", storage.Len())
			}
		})
	}
}

// Requirement: a corrupt persisted record is treated as anonymous and
// removed rather than left inconsistent.
func TestStore_RestoreMalformedRecord(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-1")
	storage := NewFakeSessionStorage()
	store := newTestStore(api, storage, nil)

	login, err := store.Login(context.Background(), core.Credentials{}, core.RoleStudent)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Corrupt the persisted role.
	for _, rec := range storage.records {
		rec.Role = "superuser"
	}

	sess := store.Restore(context.Background(), login.CookieToken)
	if sess.IsAuthenticated() {
		t.Error("corrupt record should restore as anonymous")
	}
	if storage.Len() != 0 {
		t.Errorf("corrupt record not cleared, records = %d", storage.Len())
	}
}

// Requirement: a record whose stored hash does not match the presented
// token is cleared and restores as anonymous.
func TestStore_RestoreMismatchedTokenHash(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-1")
	storage := NewFakeSessionStorage()
	store := newTestStore(api, storage, nil)

	login, err := store.Login(context.Background(), core.Credentials{}, core.RoleStudent)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Tamper with the stored hash so it no longer matches the cookie token.
	for _, rec := range storage.records {
		rec.TokenHash = crypto.HashToken("some-other-token")
	}

	sess := store.Restore(context.Background(), login.CookieToken)
	if sess.IsAuthenticated() {
		t.Error("mismatched record should restore as anonymous")
	}
	if storage.Len() != 0 {
		t.Errorf("mismatched record not cleared, records = %d", storage.Len())
	}
}

// Requirement: an expired record restores as anonymous.
func TestStore_RestoreExpiredRecord(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-1")
	storage := NewFakeSessionStorage()
	store := NewStore(api, storage, nil, time.Millisecond)

	login, err := store.Login(context.Background(), core.Credentials{}, core.RoleStudent)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if sess := store.Restore(context.Background(), login.CookieToken); sess.IsAuthenticated() {
		t.Error("expired record should restore as anonymous")
	}
	if storage.Len() != 0 {
		t.Error("expired record should be cleared on restore")
	}
}

// Requirement: an unknown or empty cookie restores as anonymous.
func TestStore_RestoreAnonymous(t *testing.T) {
	store := newTestStore(NewFakeAuthAPI(testUser, "t"), NewFakeSessionStorage(), nil)

	for _, token := range []string{"", "never-issued"} {
		if sess := store.Restore(context.Background(), token); sess.IsAuthenticated() {
			t.Errorf("Restore(%q) should be anonymous", token)
		}
	}
}

// Requirement: the cache short-circuits repeat restores; invalidation
// removes the cached copy too.
func TestStore_RestoreUsesCache(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-1")
	storage := NewFakeSessionStorage()
	c := cache.New(cache.Config{TTL: time.Minute})
	store := newTestStore(api, storage, c)

	login, err := store.Login(context.Background(), core.Credentials{}, core.RoleStudent)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if sess := store.Restore(context.Background(), login.CookieToken); !sess.IsAuthenticated() {
			t.Fatalf("restore %d not authenticated", i)
		}
	}
	if api.ProfileCalls() != 0 {
		t.Errorf("profile calls = %d, want 0 (login already cached)", api.ProfileCalls())
	}

	store.Invalidate(context.Background(), login.CookieToken)
	if sess := store.Restore(context.Background(), login.CookieToken); sess.IsAuthenticated() {
		t.Error("restore after invalidate should be anonymous")
	}
}

// Requirement: logout clears user, token and persisted copies; calling it
// twice yields the same cleared state as calling it once.
func TestStore_LogoutIdempotent(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-1")
	storage := NewFakeSessionStorage()
	store := newTestStore(api, storage, cache.New(cache.Config{}))

	login, err := store.Login(context.Background(), core.Credentials{}, core.RoleManager)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	store.Logout(context.Background(), login.CookieToken)
	store.Logout(context.Background(), login.CookieToken)

	if storage.Len() != 0 {
		t.Errorf("persisted records = %d, want 0", storage.Len())
	}
	if sess := store.Restore(context.Background(), login.CookieToken); sess.IsAuthenticated() {
		t.Error("restore after logout should be anonymous")
	}
}

// Requirement: logout never fails, even when storage misbehaves.
func TestStore_LogoutSwallowsStorageErrors(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-1")
	storage := NewFakeSessionStorage()
	storage.deleteErr = errors.New("storage offline")
	store := newTestStore(api, storage, nil)

	// Must not panic or surface anything.
	store.Logout(context.Background(), "some-token")
}

// Requirement: a 401 observed on any authenticated request clears both user
// and token (session invalidation).
func TestStore_InvalidateOn401(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-1")
	storage := NewFakeSessionStorage()
	store := newTestStore(api, storage, nil)

	login, err := store.Login(context.Background(), core.Credentials{}, core.RoleStudent)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Some authenticated call elsewhere returned core.ErrSessionInvalidated.
	store.Invalidate(context.Background(), login.CookieToken)

	sess := store.Restore(context.Background(), login.CookieToken)
	if sess.User != nil || sess.Token != "" {
		t.Error("user and token must both be unset after invalidation")
	}
}

// Requirement: overlapping logins each get their own record; the losing
// submission cannot corrupt the winning one.
func TestStore_OverlappingLoginsIndependent(t *testing.T) {
	api := NewFakeAuthAPI(testUser, "bearer-1")
	storage := NewFakeSessionStorage()
	store := newTestStore(api, storage, nil)

	first, err := store.Login(context.Background(), core.Credentials{}, core.RoleStudent)
	if err != nil {
		t.Fatalf("first Login() error = %v", err)
	}
	second, err := store.Login(context.Background(), core.Credentials{}, core.RoleStudent)
	if err != nil {
		t.Fatalf("second Login() error = %v", err)
	}

	if first.CookieToken == second.CookieToken {
		t.Error("each login must issue a distinct cookie token")
	}
	if storage.Len() != 2 {
		t.Errorf("records = %d, want 2", storage.Len())
	}
	if !store.Restore(context.Background(), first.CookieToken).IsAuthenticated() {
		t.Error("first session should still restore")
	}
}
